package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fhemview/internal/logger"
	"fhemview/internal/metrics"
	"fhemview/internal/models"
)

// Raw log line layout: whitespace-separated fields, field 0 is the
// timestamp, field 3 the value token.
const (
	timestampLayout = "2006-01-02_15:04:05"
	valueField      = 3
	minLineFields   = 4

	// capacitySlack pre-sizes the sample slices a little beyond the line
	// count so appends during ingestion do not reallocate.
	capacitySlack = 8
)

// numericPattern accepts an optional sign, digits, and an optional
// fractional part. Tokens that do not match are recorded as 0.0.
var numericPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// SeriesIngester converts raw log lines into typed series. The variant
// (numeric vs categorical) is a caller decision based on the sensor's
// declared value type; nothing is auto-detected.
type SeriesIngester struct {
	log *logger.Logger
	loc *time.Location
}

// NewSeriesIngester returns an ingester that interprets timestamps in the
// process's local time zone.
func NewSeriesIngester(log *logger.Logger) *SeriesIngester {
	return &SeriesIngester{log: log, loc: time.Local}
}

// Numeric ingests the lines into a numeric series. A token that fails the
// numeric pattern is recorded as 0.0 rather than failing the sample; the
// rest of the series stays available.
func (si *SeriesIngester) Numeric(lines []string, unit string, showInApp bool) *models.NumericSeries {
	out := &models.NumericSeries{
		SeriesHead: newHead(len(lines), unit, showInApp),
		Values:     make([]float64, 0, len(lines)+capacitySlack),
	}
	for i, line := range lines {
		ts, token, err := si.parseLine(line)
		if err != nil {
			si.skipLine(i, err)
			continue
		}
		v := 0.0
		if numericPattern.MatchString(token) {
			// cannot fail after the pattern match
			v, _ = strconv.ParseFloat(token, 64)
		}
		out.Timestamps = append(out.Timestamps, ts)
		out.Values = append(out.Values, v)
	}
	return out
}

// Categorical ingests the lines into a categorical series, assigning legend
// codes in first-seen order.
func (si *SeriesIngester) Categorical(lines []string, unit string, showInApp bool) *models.CategoricalSeries {
	out := &models.CategoricalSeries{
		SeriesHead: newHead(len(lines), unit, showInApp),
		Codes:      make([]int, 0, len(lines)+capacitySlack),
		Legend:     models.NewLegend(),
	}
	for i, line := range lines {
		ts, token, err := si.parseLine(line)
		if err != nil {
			si.skipLine(i, err)
			continue
		}
		out.Timestamps = append(out.Timestamps, ts)
		out.Codes = append(out.Codes, out.Legend.Code(token))
	}
	return out
}

func newHead(n int, unit string, showInApp bool) models.SeriesHead {
	return models.SeriesHead{
		Unit:       unit,
		ShowInApp:  showInApp,
		Timestamps: make([]int64, 0, n+capacitySlack),
	}
}

// parseLine splits a raw line into its epoch-second timestamp and value token.
func (si *SeriesIngester) parseLine(line string) (int64, string, error) {
	fields := strings.Fields(line)
	if len(fields) < minLineFields {
		return 0, "", fmt.Errorf("expected at least %d fields, got %d", minLineFields, len(fields))
	}
	t, err := time.ParseInLocation(timestampLayout, fields[0], si.loc)
	if err != nil {
		return 0, "", fmt.Errorf("parse timestamp %q: %w", fields[0], err)
	}
	return t.Unix(), fields[valueField], nil
}

// skipLine records the local recovery for one malformed line; it is never
// fatal to the series.
func (si *SeriesIngester) skipLine(idx int, err error) {
	metrics.LogLinesSkipped.Inc()
	if si.log != nil {
		si.log.Warnw("log_line_skipped", "line", idx, "err", err)
	}
}
