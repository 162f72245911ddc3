package rules

import "fhemview/internal/models"

// Condition decides whether the monitored expectation holds for one
// evaluation. Implementations must not mutate the model.
type Condition interface {
	Holds(m *models.Model, st State) bool
}

// Rule is one declarative automation check. Rules are equal when their
// names are equal; the engine keeps a set, so registering a rule under an
// already-registered name is a no-op.
type Rule struct {
	Name         string
	Condition    Condition
	OkMessage    string
	ErrorMessage string
}

// SensorState expects a named sensor to report a status while the current
// time is inside the [From, To) fact window. A From fact later in the day
// than To wraps past midnight (an overnight window). Outside the window
// there is nothing to monitor and the condition holds trivially.
type SensorState struct {
	Sensor string
	Want   string
	From   Fact
	To     Fact
}

func (c SensorState) Holds(m *models.Model, st State) bool {
	if !inWindow(st.Now, st.Fact(c.From), st.Fact(c.To)) {
		return true
	}
	s, ok := m.SensorByName(c.Sensor)
	if !ok {
		// a monitored sensor missing from the snapshot is a violation,
		// not a silently passing check
		return false
	}
	return s.Status == c.Want
}

// inWindow reports whether now lies in the half-open [from, to) window,
// wrapping past midnight when from is later than to.
func inWindow(now, from, to int64) bool {
	if from <= to {
		return now >= from && now < to
	}
	return now >= from || now < to
}
