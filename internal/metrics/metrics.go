package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay link metrics
var (
	RelayConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waystation_relay_connected",
			Help: "Whether the relay link is currently open (1) or down (0)",
		},
	)

	RelayReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waystation_relay_reconnects_total",
			Help: "Number of relay reconnect attempts",
		},
	)

	RelayFramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waystation_relay_frames_received_total",
			Help: "Inbound relay frames by kind",
		},
		[]string{"type"},
	)

	RelayFramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waystation_relay_frames_sent_total",
			Help: "Outbound relay frames by kind",
		},
		[]string{"type"},
	)
)

// Handoff metrics
var (
	HandoffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waystation_handoffs_total",
			Help: "Handoff outcomes by result (confirmed or rejection reason)",
		},
		[]string{"result"},
	)

	HandoffDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waystation_handoff_duration_seconds",
			Help:    "End-to-end handoff processing time",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlayersOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waystation_players_online",
			Help: "Currently connected agents",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waystation_http_requests_total",
			Help: "HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waystation_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
