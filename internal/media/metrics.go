package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOk      = "ok"
	outcomeFailed  = "failed"
	outcomeDropped = "dropped"
)

var (
	derivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnail_derivations_total",
			Help: "Thumbnail derivation attempts by media type and outcome",
		},
		[]string{"media_type", "outcome"},
	)

	derivationQueueDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbnail_derivation_queue_dropped_total",
			Help: "Derivation jobs dropped because the queue was full",
		},
	)

	derivationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbnail_derivation_queue_depth",
			Help: "Derivation jobs currently waiting in the queue",
		},
	)
)
