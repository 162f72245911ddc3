package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// appRoomPrefix marks rooms that belong to the end-user app view.
const appRoomPrefix = "app_"

// Room groups the sensors mounted in one physical room.
// Identity is the name: two rooms with the same name are the same room.
type Room struct {
	Name    string
	Plan    *RoomPlan // nil unless an app room has a plan file
	Sensors []*Sensor // insertion order, grows only during ingestion
}

// NewRoom constructs an empty room with the given name.
func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// IsApp reports whether the room is part of the app-facing view,
// derived from its naming convention.
func (r *Room) IsApp() bool {
	return strings.HasPrefix(r.Name, appRoomPrefix)
}

// AddSensor appends a sensor to the room's set.
func (r *Room) AddSensor(s *Sensor) {
	r.Sensors = append(r.Sensors, s)
}

var errPlanExtension = errors.New("room plan must be an .svg file")

// RoomPlan is an owned descriptor for a room's floor-plan file.
// The file content is loaded lazily on first use and cached.
type RoomPlan struct {
	Path string

	once sync.Once
	data []byte
	err  error
}

// NewRoomPlan validates the extension and returns a descriptor.
// The file itself is not touched until Load.
func NewRoomPlan(path string) (*RoomPlan, error) {
	if strings.ToLower(filepath.Ext(path)) != ".svg" {
		return nil, fmt.Errorf("room plan %q: %w", path, errPlanExtension)
	}
	return &RoomPlan{Path: path}, nil
}

// Load reads the plan file once and returns the cached content afterwards.
func (p *RoomPlan) Load() ([]byte, error) {
	p.once.Do(func() {
		p.data, p.err = os.ReadFile(p.Path)
		if p.err != nil {
			p.err = fmt.Errorf("load room plan %q: %w", p.Path, p.err)
		}
	})
	return p.data, p.err
}
