package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateSensorID is returned when a second sensor with an already
// registered id is added; the first registration wins.
var ErrDuplicateSensorID = errors.New("duplicate sensor id")

// Model is the complete typed state of one controller snapshot.
// The builder fully constructs a Model before publishing it; every
// downstream consumer treats it as immutable, so concurrent readers
// need no synchronization.
type Model struct {
	rooms   map[string]*Room
	sensors map[int]*Sensor
	byName  map[string]*Sensor
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		rooms:   make(map[string]*Room),
		sensors: make(map[int]*Sensor),
		byName:  make(map[string]*Sensor),
	}
}

// InternRoom returns the room with the given name, creating it on first use.
func (m *Model) InternRoom(name string) *Room {
	if r, ok := m.rooms[name]; ok {
		return r
	}
	r := NewRoom(name)
	m.rooms[name] = r
	return r
}

// Room returns the named room, if present.
func (m *Model) Room(name string) (*Room, bool) {
	r, ok := m.rooms[name]
	return r, ok
}

// AddSensor registers a sensor in the flat sensor set.
func (m *Model) AddSensor(s *Sensor) error {
	if _, ok := m.sensors[s.ID]; ok {
		return fmt.Errorf("sensor %d (%s): %w", s.ID, s.Name, ErrDuplicateSensorID)
	}
	m.sensors[s.ID] = s
	if _, ok := m.byName[s.Name]; !ok {
		m.byName[s.Name] = s
	}
	return nil
}

// Sensor returns the sensor with the given id, if registered.
func (m *Model) Sensor(id int) (*Sensor, bool) {
	s, ok := m.sensors[id]
	return s, ok
}

// SensorByName returns the sensor registered under the given name. When
// two sensors share a name the first registration wins, mirroring the id
// set.
func (m *Model) SensorByName(name string) (*Sensor, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// Rooms returns all rooms sorted by name.
func (m *Model) Rooms() []*Room {
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sensors returns all sensors sorted by id.
func (m *Model) Sensors() []*Sensor {
	out := make([]*Sensor, 0, len(m.sensors))
	for _, s := range m.sensors {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NumRooms returns the number of rooms.
func (m *Model) NumRooms() int { return len(m.rooms) }

// NumSensors returns the number of registered sensors.
func (m *Model) NumSensors() int { return len(m.sensors) }

// Validate checks the cross-reference invariant: every sensor reachable
// from a room is registered in the flat sensor set and vice versa.
func (m *Model) Validate() error {
	attached := make(map[int]bool, len(m.sensors))
	for name, r := range m.rooms {
		for _, s := range r.Sensors {
			reg, ok := m.sensors[s.ID]
			if !ok {
				return fmt.Errorf("room %q references unregistered sensor %d", name, s.ID)
			}
			if reg != s {
				return fmt.Errorf("room %q references a stale copy of sensor %d", name, s.ID)
			}
			attached[s.ID] = true
		}
	}
	for id := range m.sensors {
		if !attached[id] {
			return fmt.Errorf("sensor %d is registered but attached to no room", id)
		}
	}
	return nil
}
