package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions — живые WS-сессии по доменам чата (group|subject).
	ActiveSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edu",
		Subsystem: "ws",
		Name:      "active_sessions",
		Help:      "Number of live websocket sessions per chat domain.",
	}, []string{"domain"})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edu",
		Subsystem: "ws",
		Name:      "events_total",
		Help:      "Inbound websocket events by type.",
	}, []string{"type"})

	DeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edu",
		Subsystem: "ws",
		Name:      "delivered_total",
		Help:      "Outbound payloads delivered to live sessions.",
	})

	Evictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edu",
		Subsystem: "ws",
		Name:      "evictions_total",
		Help:      "Stale sessions force-closed on reconnect.",
	})

	ScoringRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edu",
		Subsystem: "tests",
		Name:      "scoring_runs_total",
		Help:      "Completed automatic test scoring runs.",
	})
)
