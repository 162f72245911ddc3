package ingest

import (
	"errors"
	"path/filepath"

	"fhemview/internal/logger"
	"fhemview/internal/metrics"
	"fhemview/internal/models"
)

// SeriesKind is the declared value type of a log reference.
type SeriesKind string

const (
	KindNumeric     SeriesKind = "numeric"
	KindCategorical SeriesKind = "categorical"
)

// LogRef is one log file associated with a device, with its raw lines
// already retrieved by the snapshot source.
type LogRef struct {
	Kind      SeriesKind
	Unit      string
	ShowInApp bool
	Lines     []string
}

// DeviceRecord is the parsed form of one device of the raw snapshot.
type DeviceRecord struct {
	ID         int
	Name       string
	Rooms      []string
	Permission string
	Status     string
	X          int
	Y          int
	ShowInApp  bool
	MetaInfo   map[string]string
	Logs       []LogRef
}

// Validation errors for individual device records.
var (
	errEmptyName   = errors.New("empty device name")
	errNoRoom      = errors.New("device declares no room membership")
	errCoordinates = errors.New("negative coordinates")
)

// Builder assembles raw device records into a Model. It is an explicitly
// constructed component; one instance can build any number of snapshots.
type Builder struct {
	series  *SeriesIngester
	log     *logger.Logger
	planDir string
}

// NewBuilder returns a builder that looks for room-plan files under planDir.
// An empty planDir disables plan resolution.
func NewBuilder(series *SeriesIngester, log *logger.Logger, planDir string) *Builder {
	return &Builder{series: series, log: log, planDir: planDir}
}

// Build runs a single pass over the records and returns a fully constructed
// Model. A malformed record is skipped with a diagnostic; the caller gets a
// model missing that device rather than no model at all.
func (b *Builder) Build(records []DeviceRecord) *models.Model {
	m := models.NewModel()
	for _, rec := range records {
		if err := validateRecord(rec); err != nil {
			b.skipDevice(rec, err)
			continue
		}
		s := &models.Sensor{
			ID:          rec.ID,
			Name:        rec.Name,
			Coordinates: models.Coordinates{X: rec.X, Y: rec.Y},
			Permission:  rec.Permission,
			Status:      rec.Status,
			ShowInApp:   rec.ShowInApp,
			MetaInfo:    rec.MetaInfo,
		}
		// id uniqueness: the first-registered record wins
		if err := m.AddSensor(s); err != nil {
			b.skipDevice(rec, err)
			continue
		}
		for i, name := range rec.Rooms {
			room := b.internRoom(m, name)
			room.AddSensor(s)
			if i == 0 {
				s.Room = room
			}
		}
		for _, ref := range rec.Logs {
			s.AddSeries(b.ingestLog(ref))
		}
	}
	metrics.SnapshotsBuilt.Inc()
	return m
}

// internRoom creates the room on first sight and, for app rooms, attaches
// the plan descriptor when a plan file is configured.
func (b *Builder) internRoom(m *models.Model, name string) *models.Room {
	if r, ok := m.Room(name); ok {
		return r
	}
	r := m.InternRoom(name)
	if b.planDir != "" && r.IsApp() {
		plan, err := models.NewRoomPlan(filepath.Join(b.planDir, name+".svg"))
		if err != nil {
			if b.log != nil {
				b.log.Warnw("room_plan_rejected", "room", name, "err", err)
			}
			return r
		}
		r.Plan = plan
	}
	return r
}

func (b *Builder) ingestLog(ref LogRef) models.TimeSeries {
	if ref.Kind == KindCategorical {
		return b.series.Categorical(ref.Lines, ref.Unit, ref.ShowInApp)
	}
	return b.series.Numeric(ref.Lines, ref.Unit, ref.ShowInApp)
}

func validateRecord(rec DeviceRecord) error {
	if rec.Name == "" {
		return errEmptyName
	}
	if len(rec.Rooms) == 0 {
		return errNoRoom
	}
	if !(models.Coordinates{X: rec.X, Y: rec.Y}).Valid() {
		return errCoordinates
	}
	return nil
}

func (b *Builder) skipDevice(rec DeviceRecord, err error) {
	metrics.DevicesSkipped.Inc()
	if b.log != nil {
		b.log.Warnw("device_record_skipped", "id", rec.ID, "name", rec.Name, "err", err)
	}
}
