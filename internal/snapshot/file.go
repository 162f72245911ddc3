package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fhemview/internal/ingest"
	"fhemview/internal/logger"
)

// rawDevice mirrors the fields of the dump file the builder needs;
// anything else in the controller's wire format is ignored.
type rawDevice struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Rooms      []string          `json:"rooms"`
	Permission string            `json:"permission"`
	Status     string            `json:"status"`
	X          int               `json:"x"`
	Y          int               `json:"y"`
	ShowInApp  bool              `json:"show_in_app"`
	MetaInfo   map[string]string `json:"meta_info"`
	Logs       []rawLogRef       `json:"logs"`
}

type rawLogRef struct {
	File      string `json:"file"`
	Kind      string `json:"kind"` // numeric | categorical
	Unit      string `json:"unit"`
	ShowInApp bool   `json:"show_in_app"`
}

// FileSource reads a JSON device dump plus one raw log file per declared
// log reference from a filelog directory.
type FileSource struct {
	dumpPath string
	logDir   string
	log      *logger.Logger
}

// NewFileSource returns a source over the given dump file and log directory.
func NewFileSource(dumpPath, logDir string, log *logger.Logger) *FileSource {
	return &FileSource{dumpPath: dumpPath, logDir: logDir, log: log}
}

var _ Source = (*FileSource)(nil)

// Fetch reads the dump and resolves every log reference. A log file that
// cannot be read drops only that reference, not the device or the dump.
func (fs *FileSource) Fetch(ctx context.Context) ([]ingest.DeviceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(fs.dumpPath)
	if err != nil {
		return nil, fmt.Errorf("read device dump %q: %w", fs.dumpPath, err)
	}
	var devices []rawDevice
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("decode device dump %q: %w", fs.dumpPath, err)
	}

	out := make([]ingest.DeviceRecord, 0, len(devices))
	for _, d := range devices {
		rec := ingest.DeviceRecord{
			ID:         d.ID,
			Name:       d.Name,
			Rooms:      d.Rooms,
			Permission: d.Permission,
			Status:     d.Status,
			X:          d.X,
			Y:          d.Y,
			ShowInApp:  d.ShowInApp,
			MetaInfo:   d.MetaInfo,
		}
		for _, ref := range d.Logs {
			lines, err := fs.readLog(ref.File)
			if err != nil {
				if fs.log != nil {
					fs.log.Warnw("log_file_skipped", "device", d.Name, "file", ref.File, "err", err)
				}
				continue
			}
			rec.Logs = append(rec.Logs, ingest.LogRef{
				Kind:      seriesKind(ref.Kind),
				Unit:      ref.Unit,
				ShowInApp: ref.ShowInApp,
				Lines:     lines,
			})
		}
		out = append(out, rec)
	}
	return out, nil
}

func (fs *FileSource) readLog(name string) ([]string, error) {
	raw, err := os.ReadFile(filepath.Join(fs.logDir, name))
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func seriesKind(s string) ingest.SeriesKind {
	if s == string(ingest.KindCategorical) {
		return ingest.KindCategorical
	}
	return ingest.KindNumeric
}
