package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventsDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsDeadLettered,
			Help: HelpTextEventsDeadLettered,
		},
		[]string{LabelType},
	)
)

// Business metrics
var (
	GamesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesCreated,
			Help: HelpTextGamesCreated,
		},
		[]string{LabelPredictionType},
	)

	GamesSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGamesSettled,
			Help: HelpTextGamesSettled,
		},
	)

	GamesCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGamesCancelled,
			Help: HelpTextGamesCancelled,
		},
	)

	PredictionsPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsPlaced,
			Help: HelpTextPredictionsPlaced,
		},
	)

	StakePooled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStakePooled,
			Help: HelpTextStakePooled,
		},
	)

	SettlementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSettlementDuration,
			Help:    HelpTextSettlementDuration,
			Buckets: SettlementBuckets,
		},
	)

	SettlementBacklog = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSettlementBacklog,
			Help: HelpTextSettlementBacklog,
		},
	)

	VersionConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVersionConflicts,
			Help: HelpTextVersionConflicts,
		},
		[]string{LabelOperation},
	)
)
