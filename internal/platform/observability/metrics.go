package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Oracle request outcomes.
const (
	OracleStatusOK          = "ok"
	OracleStatusError       = "error"
	OracleStatusParseError  = "parse_error"
	OracleStatusCircuitOpen = "circuit_open"
)

var (
	MessagesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_messages_scanned_total",
		Help: "The total number of messages read from channels within the lookback window",
	}, []string{"channel"})

	DropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_drops_total",
		Help: "Total number of rejected messages by reason",
	}, []string{"reason"})

	ListingsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_listings_accepted_total",
		Help: "The total number of accepted listings",
	}, []string{"channel"})

	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_sink_errors_total",
		Help: "Total number of failed listing writes by sink",
	}, []string{"sink"})

	OracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_oracle_requests_total",
		Help: "Total number of LLM oracle requests by outcome",
	}, []string{"provider", "status"})

	OracleRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rent_oracle_request_duration_seconds",
		Help:    "Duration of LLM oracle requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	ChannelsDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rent_channels_discovered",
		Help: "Number of channels selected by the last discovery pass",
	})

	ChannelErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rent_channel_errors_total",
		Help: "Total number of transport failures while reading channel history",
	}, []string{"channel"})

	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rent_run_duration_seconds",
		Help:    "Duration in seconds of a full collection run",
		Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 1800, 3600},
	})
)
