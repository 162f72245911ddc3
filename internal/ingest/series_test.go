package ingest

import (
	"testing"
	"time"
)

func epoch(t *testing.T, s string) int64 {
	t.Helper()
	ts, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts.Unix()
}

func TestSeriesIngester_Numeric(t *testing.T) {
	si := NewSeriesIngester(nil)
	lines := []string{
		"2023-06-01_08:00:00 dummy set 21.5",
		"2023-06-01_09:00:00 dummy set on", // fails the numeric pattern
		"2023-06-01_10:00:00 dummy set -3.25",
	}
	s := si.Numeric(lines, "C", true)

	if len(s.Timestamps) != len(s.Values) {
		t.Fatalf("timestamps/values length mismatch: %d vs %d", len(s.Timestamps), len(s.Values))
	}
	wantValues := []float64{21.5, 0.0, -3.25}
	if len(s.Values) != len(wantValues) {
		t.Fatalf("expected %d samples, got %d", len(wantValues), len(s.Values))
	}
	for i, want := range wantValues {
		if s.Values[i] != want {
			t.Fatalf("value %d = %v, want %v", i, s.Values[i], want)
		}
	}
	if s.Timestamps[0] != epoch(t, "2023-06-01_08:00:00") {
		t.Fatalf("timestamp 0 = %d, want %d", s.Timestamps[0], epoch(t, "2023-06-01_08:00:00"))
	}
	if s.Unit != "C" || !s.ShowInApp {
		t.Fatalf("head not carried: %+v", s.SeriesHead)
	}
}

func TestSeriesIngester_NumericSkipsMalformedLines(t *testing.T) {
	si := NewSeriesIngester(nil)
	lines := []string{
		"not_a_timestamp dummy set 1.0",
		"2023-06-01_08:00:00 too few",
		"2023-06-01_09:00:00 dummy set 2.5",
	}
	s := si.Numeric(lines, "", false)
	if s.Len() != 1 {
		t.Fatalf("expected 1 surviving sample, got %d", s.Len())
	}
	if s.Values[0] != 2.5 {
		t.Fatalf("surviving value = %v, want 2.5", s.Values[0])
	}
}

func TestSeriesIngester_CategoricalLegendOrder(t *testing.T) {
	si := NewSeriesIngester(nil)
	lines := []string{
		"2023-06-01_08:00:00 dummy set 21.5",
		"2023-06-01_09:00:00 dummy set on",
		"2023-06-01_10:00:00 dummy set 21.5",
		"2023-06-01_11:00:00 dummy set off",
	}
	s := si.Categorical(lines, "", false)

	if len(s.Timestamps) != len(s.Codes) {
		t.Fatalf("timestamps/codes length mismatch")
	}
	wantCodes := []int{0, 1, 0, 2}
	for i, want := range wantCodes {
		if s.Codes[i] != want {
			t.Fatalf("code %d = %d, want %d", i, s.Codes[i], want)
		}
	}
	wantLabels := []string{"21.5", "on", "off"}
	got := s.Legend.Labels()
	if len(got) != len(wantLabels) {
		t.Fatalf("legend size = %d, want %d", len(got), len(wantLabels))
	}
	for i, want := range wantLabels {
		if got[i] != want {
			t.Fatalf("legend[%d] = %q, want %q", i, got[i], want)
		}
	}
}

func TestSeriesIngester_PreservesInputOrder(t *testing.T) {
	si := NewSeriesIngester(nil)
	// deliberately non-chronological: ingestion must not sort
	lines := []string{
		"2023-06-01_10:00:00 dummy set 2",
		"2023-06-01_08:00:00 dummy set 1",
	}
	s := si.Numeric(lines, "", false)
	if s.Values[0] != 2 || s.Values[1] != 1 {
		t.Fatalf("input order not preserved: %v", s.Values)
	}
}
