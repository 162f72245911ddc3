package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fhemview/internal/logger"
	"fhemview/internal/metrics"
	"fhemview/internal/models"
)

// Result is the verdict of one rule for one evaluation.
type Result struct {
	Name       string    `json:"name"`
	Ok         bool      `json:"ok"`
	Message    string    `json:"message"`
	LastChange time.Time `json:"last_change"`
}

// Report is the outcome of evaluating every registered rule once.
// A failing rule is a normal, reportable result, never an error.
type Report struct {
	ID          string    `json:"id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	Passed      bool      `json:"passed"` // true iff every rule passed
	Results     []Result  `json:"results"`
}

// ruleStatus tracks the last verdict so LastChange moves only on flips.
type ruleStatus struct {
	known     bool
	lastOK    bool
	changedAt time.Time
}

// Engine evaluates a registered rule set against snapshot models.
// The engine guards its own verdict bookkeeping with a mutex; the model
// itself is read-only during evaluation.
type Engine struct {
	loc Location
	log *logger.Logger
	now func() time.Time

	mu     sync.Mutex
	order  []string
	rules  map[string]Rule
	status map[string]*ruleStatus
}

// NewEngine returns an engine for the given site.
func NewEngine(loc Location, log *logger.Logger) *Engine {
	return &Engine{
		loc:    loc,
		log:    log,
		now:    time.Now,
		rules:  make(map[string]Rule),
		status: make(map[string]*ruleStatus),
	}
}

// Register adds a rule to the set. Registering a rule whose name is
// already present is a no-op.
func (e *Engine) Register(r Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[r.Name]; ok {
		return
	}
	e.rules[r.Name] = r
	e.order = append(e.order, r.Name)
	e.status[r.Name] = &ruleStatus{}
}

// Len returns the number of registered rules.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rules)
}

// Evaluate builds one fresh State and runs every registered rule against
// (model, state). The report's Passed is true only when all rules passed.
func (e *Engine) Evaluate(m *models.Model) (Report, error) {
	now := e.now()
	st, err := NewState(now, e.loc)
	if err != nil {
		return Report{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	report := Report{
		ID:          uuid.NewString(),
		EvaluatedAt: now.UTC(),
		Passed:      true,
		Results:     make([]Result, 0, len(e.order)),
	}
	for _, name := range e.order {
		r := e.rules[name]
		ok := r.Condition.Holds(m, st)
		stat := e.status[name]
		if !stat.known || stat.lastOK != ok {
			// first verdict or a flip; steady verdicts keep their timestamp
			stat.known = true
			stat.lastOK = ok
			stat.changedAt = now.UTC()
		}

		msg := r.OkMessage
		if !ok {
			msg = r.ErrorMessage
			report.Passed = false
			metrics.RuleFailures.WithLabelValues(name).Inc()
			if e.log != nil {
				e.log.Warnw("rule_failed", "rule", name, "message", msg)
			}
		}
		report.Results = append(report.Results, Result{
			Name:       name,
			Ok:         ok,
			Message:    msg,
			LastChange: stat.changedAt,
		})
	}
	return report, nil
}
