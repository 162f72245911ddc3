// Package projection renders a permission-filtered view of a snapshot model.
//
// Visibility cascades bottom-up: a series is permitted by its sensor's tag,
// a sensor by having at least one permitted series, a room by having at
// least one permitted sensor. An elided node appears as an explicit null
// under its name key, never by key omission, and none of its attributes or
// children ever reach the output. The null marker deliberately trades a
// little secrecy for shape stability: a caller can learn that something
// with that name exists, but nothing beyond the name.
package projection

import "fhemview/internal/models"

// PermissionSet is the set of permission tags granted to one caller.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the granted tags.
func NewPermissionSet(tags ...string) PermissionSet {
	p := make(PermissionSet, len(tags))
	for _, t := range tags {
		p[t] = struct{}{}
	}
	return p
}

// Allows reports whether a node carrying the given tag may be viewed.
// The empty tag means no restriction was declared and is always allowed.
func (p PermissionSet) Allows(tag string) bool {
	if tag == "" {
		return true
	}
	_, ok := p[tag]
	return ok
}

// View is the projection of a whole model. Rooms are keyed by name;
// an elided room has a nil entry.
type View struct {
	Rooms map[string]*RoomView `json:"rooms"`
}

// RoomView is the projection of one room. Sensors are keyed by name;
// an elided sensor has a nil entry.
type RoomView struct {
	Name    string                 `json:"name"`
	IsApp   bool                   `json:"is_app"`
	Plan    string                 `json:"plan,omitempty"` // plan file path, app rooms only
	Sensors map[string]*SensorView `json:"sensors"`
}

// SensorView is the projection of one sensor with all of its series.
type SensorView struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Status    string            `json:"status"`
	ShowInApp bool              `json:"show_in_app"`
	MetaInfo  map[string]string `json:"meta_info,omitempty"`
	Series    []SeriesView      `json:"series"`
}

// SeriesView is the projection of one time series. Numeric series carry
// Values; categorical series carry Codes plus the Legend in code order.
type SeriesView struct {
	Kind       string    `json:"kind"` // numeric | categorical
	Unit       string    `json:"unit,omitempty"`
	ShowInApp  bool      `json:"show_in_app"`
	Timestamps []int64   `json:"timestamps"`
	Values     []float64 `json:"values,omitempty"`
	Codes      []int     `json:"codes,omitempty"`
	Legend     []string  `json:"legend,omitempty"`
}

// Project renders the model for a caller's permission set. It is a pure
// function of its inputs: the model is never mutated, so concurrent calls
// with different permission sets are safe.
func Project(m *models.Model, perms PermissionSet) *View {
	rooms := make(map[string]*RoomView, m.NumRooms())
	for _, r := range m.Rooms() {
		rooms[r.Name] = ProjectRoom(r, perms)
	}
	return &View{Rooms: rooms}
}

// ProjectRoom renders one room, or nil when every sensor in it is elided.
func ProjectRoom(r *models.Room, perms PermissionSet) *RoomView {
	sensors := make(map[string]*SensorView, len(r.Sensors))
	visible := false
	for _, s := range r.Sensors {
		sv := projectSensor(s, perms)
		sensors[s.Name] = sv
		if sv != nil {
			visible = true
		}
	}
	if !visible {
		// fully elided: the sensor map, names included, must not escape
		return nil
	}
	rv := &RoomView{Name: r.Name, IsApp: r.IsApp(), Sensors: sensors}
	if r.Plan != nil {
		rv.Plan = r.Plan.Path
	}
	return rv
}

// projectSensor renders one sensor, or nil when none of its series is
// permitted. A sensor with no series at all is elided even when its own
// record carries no restriction.
func projectSensor(s *models.Sensor, perms PermissionSet) *SensorView {
	if !perms.Allows(s.Permission) || len(s.Series) == 0 {
		return nil
	}
	sv := &SensorView{
		ID:        s.ID,
		Name:      s.Name,
		X:         s.Coordinates.X,
		Y:         s.Coordinates.Y,
		Status:    s.Status,
		ShowInApp: s.ShowInApp,
		MetaInfo:  s.MetaInfo,
		Series:    make([]SeriesView, 0, len(s.Series)),
	}
	for _, ts := range s.Series {
		sv.Series = append(sv.Series, projectSeries(ts))
	}
	return sv
}

func projectSeries(ts models.TimeSeries) SeriesView {
	h := ts.Head()
	out := SeriesView{
		Unit:       h.Unit,
		ShowInApp:  h.ShowInApp,
		Timestamps: h.Timestamps,
	}
	switch v := ts.(type) {
	case *models.NumericSeries:
		out.Kind = "numeric"
		out.Values = v.Values
	case *models.CategoricalSeries:
		out.Kind = "categorical"
		out.Codes = v.Codes
		out.Legend = v.Legend.Labels()
	}
	return out
}
