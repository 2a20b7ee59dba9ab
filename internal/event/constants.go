package event

import "time"

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Retry configuration defaults
const (
	// RetryInitialDelay is the first retry delay; subsequent attempts back
	// off exponentially (2s, 4s, 8s, ...)
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// DeadLetterFilePermissions is the file permission mode for dead-letter files
const DeadLetterFilePermissions = 0644

// Log message constants
const (
	LogMsgEventPublishFailed  = "Event publish failed, scheduling retries"
	LogMsgEventRetryExhausted = "Event retries exhausted, writing to dead-letter"
	LogMsgEventRetrySucceeded = "Event published after retry"
	LogMsgDeadLetterFailed    = "Failed to write dead-letter entry"
	LogMsgHandlerErrorFormat  = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay returns the exponential backoff delay for an attempt,
// starting at baseDelay for attempt 1.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
