package game

// ============================================================================
// Optimistic Concurrency
// ============================================================================

// MaxSaveRetries bounds the load -> mutate -> compare-and-swap loop. Each
// retry reloads the aggregate at its current version before reapplying the
// mutation.
const MaxSaveRetries = 3

// ============================================================================
// Settlement Policy Defaults
// ============================================================================

// HouseCutBasisPoints is the default pari-mutuel house cut, in basis points
// of the pool (250 = 2.5%).
const HouseCutBasisPoints = 250

// BasisPointsDenominator converts basis points to a fraction
const BasisPointsDenominator = 10000

// ============================================================================
// Log Messages
// ============================================================================

// Log operation identifiers
const (
	LogMsgCreateCalled            = "Create called"
	LogMsgStartCalled             = "Start called"
	LogMsgPlacePredictionCalled   = "PlacePrediction called"
	LogMsgClosePredictionsCalled  = "ClosePredictions called"
	LogMsgSettleCalled            = "Settle called"
	LogMsgCancelCalled            = "Cancel called"
	LogMsgUpdateConfigCalled      = "UpdateConfig called"
	LogMsgVersionConflictRetrying = "Version conflict, retrying"
)

// Warning/Info messages
const (
	LogMsgLedgerCreditFailed        = "Ledger credit failed"
	LogMsgShuttingDownGameService   = "Shutting down game service, waiting for async operations..."
	LogMsgGameServiceShutdownDone   = "Game service shutdown complete"
	LogMsgGameServiceShutdownForced = "Game service shutdown forced by context cancellation"
)

// ============================================================================
// Error Messages (local to game service)
// ============================================================================

// Error context messages for wrapped errors
const (
	ErrContextFailedToGetGame       = "failed to get game"
	ErrContextFailedToSaveGame      = "failed to save game"
	ErrContextFailedToListGames     = "failed to list games"
	ErrContextFailedToDebitStake    = "failed to debit stake"
	ErrContextFailedToRefundStake   = "failed to refund stake"
	ErrContextRetriesExhausted      = "retries exhausted after version conflicts"
	ErrContextFailedToGetStatistics = "failed to get statistics"
)
