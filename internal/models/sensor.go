package models

// Coordinates is a sensor's placement on the room plan.
type Coordinates struct {
	X int
	Y int
}

// Valid reports whether both coordinates are non-negative.
// A sensor with a negative coordinate is considered mis-specified.
func (c Coordinates) Valid() bool {
	return c.X >= 0 && c.Y >= 0
}

// Sensor is one device of the controller snapshot.
// Mutated only during ingestion; read-only afterwards.
type Sensor struct {
	ID          int
	Name        string
	Coordinates Coordinates
	// Permission restricts which callers may view this sensor's series.
	// The empty tag means unrestricted: tags are opt-in restrictions, and
	// an untagged sensor is visible to everyone.
	Permission string
	Status     string
	ShowInApp  bool
	MetaInfo   map[string]string

	Room   *Room // back-reference to the owning room, non-owning
	Series []TimeSeries
}

// AddSeries attaches an ingested series to the sensor and sets its back-reference.
func (s *Sensor) AddSeries(ts TimeSeries) {
	ts.Head().Sensor = s
	s.Series = append(s.Series, ts)
}
