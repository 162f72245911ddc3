package projection

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fhemview/internal/models"
)

func numericSeries(values ...float64) *models.NumericSeries {
	ts := make([]int64, len(values))
	for i := range values {
		ts[i] = int64(1685600000 + i*3600)
	}
	return &models.NumericSeries{
		SeriesHead: models.SeriesHead{Unit: "C", Timestamps: ts},
		Values:     values,
	}
}

func addSensor(t *testing.T, m *models.Model, r *models.Room, id int, name, permission string, series ...models.TimeSeries) *models.Sensor {
	t.Helper()
	s := &models.Sensor{ID: id, Name: name, Permission: permission, Status: "on"}
	require.NoError(t, m.AddSensor(s))
	r.AddSensor(s)
	s.Room = r
	for _, ts := range series {
		s.AddSeries(ts)
	}
	return s
}

// kitchenModel is the §-style scenario: one room with a restricted and an
// unrestricted sensor, each with one numeric series.
func kitchenModel(t *testing.T) *models.Model {
	t.Helper()
	m := models.NewModel()
	r := m.InternRoom("room_kitchen")
	addSensor(t, m, r, 1, "temp_open", "", numericSeries(21.5))
	addSensor(t, m, r, 2, "temp_admin", "admin", numericSeries(30.0))
	require.NoError(t, m.Validate())
	return m
}

func TestProject_EmptyPermissionSet(t *testing.T) {
	m := kitchenModel(t)
	v := Project(m, NewPermissionSet())

	require.Contains(t, v.Rooms, "room_kitchen")
	room := v.Rooms["room_kitchen"]
	require.NotNil(t, room, "room stays visible through its unrestricted sensor")

	require.Contains(t, room.Sensors, "temp_open")
	require.Contains(t, room.Sensors, "temp_admin")
	assert.NotNil(t, room.Sensors["temp_open"])
	assert.Nil(t, room.Sensors["temp_admin"], "restricted sensor must be elided")
}

func TestProject_UnrelatedTagBehavesLikeEmpty(t *testing.T) {
	m := kitchenModel(t)
	v := Project(m, NewPermissionSet("guest"))
	room := v.Rooms["room_kitchen"]
	require.NotNil(t, room)
	assert.Nil(t, room.Sensors["temp_admin"], `"admin" not in {"guest"}`)
	assert.NotNil(t, room.Sensors["temp_open"])
}

func TestProject_MatchingTagRevealsSensor(t *testing.T) {
	m := kitchenModel(t)
	v := Project(m, NewPermissionSet("admin"))
	room := v.Rooms["room_kitchen"]
	require.NotNil(t, room)
	require.NotNil(t, room.Sensors["temp_admin"])
	require.NotNil(t, room.Sensors["temp_open"])
	assert.Equal(t, []float64{30.0}, room.Sensors["temp_admin"].Series[0].Values)
}

func TestProject_RoomElidedWhenLastSensorElided(t *testing.T) {
	m := models.NewModel()
	r := m.InternRoom("room_server")
	addSensor(t, m, r, 1, "rack_temp", "admin", numericSeries(40.0))

	v := Project(m, NewPermissionSet())
	require.Contains(t, v.Rooms, "room_server")
	assert.Nil(t, v.Rooms["room_server"], "room with no permitted sensor must be elided")
}

func TestProject_ElidedRoomLeaksNothing(t *testing.T) {
	m := models.NewModel()
	r := m.InternRoom("room_server")
	addSensor(t, m, r, 1, "rack_secret", "admin", numericSeries(40.0))

	body, err := json.Marshal(Project(m, NewPermissionSet()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"rooms":{"room_server":null}}`, string(body))
	assert.False(t, strings.Contains(string(body), "rack_secret"),
		"no attribute of a hidden sensor may appear in the response body")
}

func TestProject_SensorWithoutSeriesIsElided(t *testing.T) {
	m := models.NewModel()
	r := m.InternRoom("room_hall")
	addSensor(t, m, r, 1, "bare_sensor", "") // unrestricted but logless

	v := Project(m, NewPermissionSet())
	assert.Nil(t, v.Rooms["room_hall"], "a logless sensor cannot keep its room visible")
}

func TestProject_NothingVisibleIsAValidView(t *testing.T) {
	m := models.NewModel()
	r := m.InternRoom("room_vault")
	addSensor(t, m, r, 1, "vault_cam", "security", numericSeries(1))

	v := Project(m, NewPermissionSet("guest"))
	require.NotNil(t, v, "an all-elided view is a result, not an error")
	require.Len(t, v.Rooms, 1)
	assert.Nil(t, v.Rooms["room_vault"])
}

func TestProject_CategoricalSeriesView(t *testing.T) {
	m := models.NewModel()
	r := m.InternRoom("room_hall")
	leg := models.NewLegend()
	cs := &models.CategoricalSeries{
		SeriesHead: models.SeriesHead{Timestamps: []int64{1, 2}},
		Codes:      []int{leg.Code("open"), leg.Code("closed")},
		Legend:     leg,
	}
	addSensor(t, m, r, 1, "door_front", "", cs)

	v := Project(m, NewPermissionSet())
	sv := v.Rooms["room_hall"].Sensors["door_front"]
	require.NotNil(t, sv)
	require.Len(t, sv.Series, 1)
	assert.Equal(t, "categorical", sv.Series[0].Kind)
	assert.Equal(t, []int{0, 1}, sv.Series[0].Codes)
	assert.Equal(t, []string{"open", "closed"}, sv.Series[0].Legend)
}

func TestProject_DoesNotMutateModel(t *testing.T) {
	m := kitchenModel(t)
	_ = Project(m, NewPermissionSet())
	_ = Project(m, NewPermissionSet("admin"))
	require.NoError(t, m.Validate())
	s, _ := m.Sensor(2)
	assert.Equal(t, "admin", s.Permission)
	assert.Len(t, s.Series, 1)
}
