package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat",
		Subsystem: "reconciler",
		Name:      "events_total",
		Help:      "Inbound transport events by classification.",
	}, []string{"kind"})

	duplicateEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chat",
		Subsystem: "reconciler",
		Name:      "duplicate_events_total",
		Help:      "Inbound events discarded by the duplicate-delivery guard.",
	})

	snapshotWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat",
		Subsystem: "store",
		Name:      "snapshot_writes_total",
		Help:      "Debounced snapshot writes by outcome.",
	}, []string{"outcome"})

	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat",
		Subsystem: "notifier",
		Name:      "alerts_total",
		Help:      "Out-of-band alerts raised for peer messages.",
	}, []string{"kind"})
)
