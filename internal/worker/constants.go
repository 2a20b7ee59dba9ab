package worker

import "time"

// ============================================================================
// Worker Pool
// ============================================================================

// DefaultJobTimeout bounds a single job so a stuck close cannot stall a worker
const DefaultJobTimeout = 30 * time.Second

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Settlement Worker
// ============================================================================

const (
	LogMsgSettlementWorkerStarted = "Settlement worker started"
	LogMsgSchedulingWindowClose   = "Scheduling prediction window close"
	LogMsgClosingPredictionWindow = "Closing prediction window"
	LogMsgFailedToCloseWindow     = "Failed to close prediction window"
	LogMsgFailedToLoadGame        = "Failed to load game for scheduling"
	LogMsgSweepFailed             = "Settlement sweep failed"
	LogMsgSweepCompleted          = "Settlement sweep completed"
)
