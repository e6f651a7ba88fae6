// Package metrics exposes the Prometheus collectors shared by the store
// adapters and application services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOps counts store operations per table and verb.
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taijyu_store_operations_total",
		Help: "Store operations issued, by table and operation.",
	}, []string{"table", "op"})

	// StoreErrors counts failed store operations per table.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taijyu_store_errors_total",
		Help: "Store operations that returned an error, by table.",
	}, []string{"table"})

	// ScopingFallbacks counts legacy-schema retries without a user filter.
	ScopingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taijyu_scoping_fallbacks_total",
		Help: "Operations retried without per-user scoping because the table has no ownership column.",
	}, []string{"table"})

	// RecordBonuses counts weight-record point bonuses granted.
	RecordBonuses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taijyu_record_bonus_total",
		Help: "Point bonuses granted for recording a weight.",
	})
)
