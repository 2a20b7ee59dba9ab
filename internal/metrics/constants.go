package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventsDeadLettered = "events_dead_lettered_total"
)

// Business metric names
const (
	MetricNameGamesCreated       = "prediction_games_created_total"
	MetricNameGamesSettled       = "prediction_games_settled_total"
	MetricNameGamesCancelled     = "prediction_games_cancelled_total"
	MetricNamePredictionsPlaced  = "predictions_placed_total"
	MetricNameStakePooled        = "stake_pooled_total"
	MetricNameSettlementDuration = "settlement_duration_seconds"
	MetricNameSettlementBacklog  = "settlement_backlog"
	MetricNameVersionConflicts   = "save_version_conflicts_total"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventsDeadLettered = "Total number of events written to the dead-letter queue"

	HelpTextGamesCreated       = "Total number of prediction games created"
	HelpTextGamesSettled       = "Total number of prediction games settled"
	HelpTextGamesCancelled     = "Total number of prediction games cancelled"
	HelpTextPredictionsPlaced  = "Total number of predictions placed"
	HelpTextStakePooled        = "Total stake pooled across all games"
	HelpTextSettlementDuration = "Settlement latency in seconds"
	HelpTextSettlementBacklog  = "Number of ended games awaiting an operator-declared outcome"
	HelpTextVersionConflicts   = "Total number of optimistic-concurrency save conflicts"
)

// Metric label names
const (
	LabelMethod         = "method"
	LabelPath           = "path"
	LabelStatus         = "status"
	LabelType           = "type"
	LabelPredictionType = "prediction_type"
	LabelOperation      = "operation"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SettlementBuckets defines the histogram buckets for settlement duration
var SettlementBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5}
