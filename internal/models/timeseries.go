package models

// TimeSeries is the historical sample record of one sensor attribute.
// Concrete variants are NumericSeries and CategoricalSeries.
type TimeSeries interface {
	// Head returns the variant-independent part of the series.
	Head() *SeriesHead
	// Len returns the number of samples.
	Len() int
}

// SeriesHead carries the attributes shared by both series variants.
// Timestamps are epoch seconds in input order; the ingester never sorts.
type SeriesHead struct {
	Unit       string
	ShowInApp  bool
	Timestamps []int64
	Sensor     *Sensor // back-reference, non-owning
}

func (h *SeriesHead) Head() *SeriesHead { return h }

func (h *SeriesHead) Len() int { return len(h.Timestamps) }

// NumericSeries holds floating-point samples parallel to the timestamps.
type NumericSeries struct {
	SeriesHead
	Values []float64
}

// CategoricalSeries holds legend codes parallel to the timestamps.
type CategoricalSeries struct {
	SeriesHead
	Codes  []int
	Legend *Legend
}

// Legend is the first-seen-order bijection between categorical labels and
// compact integer codes. Codes are never renumbered once assigned.
type Legend struct {
	labels []string       // position is the code
	codes  map[string]int // reverse index for decoding new samples
}

// NewLegend returns an empty legend.
func NewLegend() *Legend {
	return &Legend{codes: make(map[string]int)}
}

// Code returns the code for the label, assigning the next sequential
// code when the label is seen for the first time.
func (l *Legend) Code(label string) int {
	if c, ok := l.codes[label]; ok {
		return c
	}
	c := len(l.labels)
	l.labels = append(l.labels, label)
	l.codes[label] = c
	return c
}

// Label returns the label for a code, and whether the code is known.
func (l *Legend) Label(code int) (string, bool) {
	if code < 0 || code >= len(l.labels) {
		return "", false
	}
	return l.labels[code], true
}

// Labels returns the labels in code order.
func (l *Legend) Labels() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// Len returns the number of distinct labels seen.
func (l *Legend) Len() int { return len(l.labels) }
