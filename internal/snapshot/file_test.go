package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fhemview/internal/ingest"
)

const testDump = `[
  {
    "id": 1,
    "name": "temp_kitchen",
    "rooms": ["room_kitchen"],
    "permission": "",
    "status": "on",
    "x": 10, "y": 20,
    "show_in_app": true,
    "meta_info": {"model": "HM-WDS10"},
    "logs": [
      {"file": "temp_kitchen.log", "kind": "numeric", "unit": "C", "show_in_app": true},
      {"file": "missing.log", "kind": "numeric"}
    ]
  },
  {
    "id": 2,
    "name": "door_front",
    "rooms": ["room_hall"],
    "permission": "admin",
    "logs": [{"file": "door_front.log", "kind": "categorical"}]
  }
]`

func writeFixture(t *testing.T) *FileSource {
	t.Helper()
	dir := t.TempDir()
	dump := filepath.Join(dir, "devices.json")
	if err := os.WriteFile(dump, []byte(testDump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	logDir := filepath.Join(dir, "filelogs")
	if err := os.Mkdir(logDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"temp_kitchen.log": "2023-06-01_08:00:00 temp_kitchen set 21.5\n\n2023-06-01_09:00:00 temp_kitchen set 22.0\n",
		"door_front.log":   "2023-06-01_08:30:00 door_front state open\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(logDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write log %s: %v", name, err)
		}
	}
	return NewFileSource(dump, logDir, nil)
}

func TestFileSource_Fetch(t *testing.T) {
	src := writeFixture(t)
	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	kitchen := records[0]
	if kitchen.Name != "temp_kitchen" || kitchen.ID != 1 {
		t.Fatalf("unexpected record: %+v", kitchen)
	}
	if len(kitchen.Logs) != 1 {
		t.Fatalf("missing log file must drop only its reference, got %d refs", len(kitchen.Logs))
	}
	if kitchen.Logs[0].Kind != ingest.KindNumeric || kitchen.Logs[0].Unit != "C" {
		t.Fatalf("unexpected log ref: %+v", kitchen.Logs[0])
	}
	if len(kitchen.Logs[0].Lines) != 2 {
		t.Fatalf("blank lines must be dropped, got %d lines", len(kitchen.Logs[0].Lines))
	}

	door := records[1]
	if door.Permission != "admin" {
		t.Fatalf("permission tag not carried: %+v", door)
	}
	if door.Logs[0].Kind != ingest.KindCategorical {
		t.Fatalf("expected categorical kind, got %q", door.Logs[0].Kind)
	}
}

func TestFileSource_MissingDump(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"), "", nil)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for a missing dump file")
	}
}
