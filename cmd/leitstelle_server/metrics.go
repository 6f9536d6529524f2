package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leitstelle",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of broadcast events published.",
	}, []string{"type"})

	missionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leitstelle",
		Subsystem: "missions",
		Name:      "created_total",
		Help:      "Number of missions created.",
	})

	wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "leitstelle",
		Subsystem: "ws",
		Name:      "connections",
		Help:      "Number of connected websocket clients.",
	})
)
