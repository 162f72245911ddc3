// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotsBuilt counts successfully built snapshot models.
	SnapshotsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fhemview_snapshots_built_total",
		Help: "Number of snapshot models built.",
	})

	// DevicesSkipped counts device records dropped during model building.
	DevicesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fhemview_devices_skipped_total",
		Help: "Number of malformed or duplicate device records skipped.",
	})

	// LogLinesSkipped counts raw log lines dropped during series ingestion.
	LogLinesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fhemview_log_lines_skipped_total",
		Help: "Number of malformed raw log lines skipped.",
	})

	// RuleFailures counts failing rule evaluations per rule.
	RuleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fhemview_rule_failures_total",
		Help: "Number of failed rule evaluations.",
	}, []string{"rule"})
)
