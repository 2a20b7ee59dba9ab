package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Identifier error messages
	ErrMsgInvalidGameID = "Invalid game ID"

	// Game operation error messages
	ErrMsgCreateGameFailed    = "Failed to create game"
	ErrMsgStartGameFailed     = "Failed to start game"
	ErrMsgPlacePredictionFail = "Failed to place prediction"
	ErrMsgCloseGameFailed     = "Failed to close predictions"
	ErrMsgSettleGameFailed    = "Failed to settle game"
	ErrMsgCancelGameFailed    = "Failed to cancel game"
	ErrMsgGetGameFailed       = "Failed to retrieve game"
	ErrMsgGetStatisticsFailed = "Failed to retrieve game statistics"
	ErrMsgUpdateConfigFailed  = "Failed to update game configuration"
	ErrMsgListGamesFailed     = "Failed to list games"
	ErrMsgSearchFailed        = "Failed to perform search"

	// Parameter validation error messages
	ErrMsgInvalidStatus       = "Invalid status parameter"
	ErrMsgInvalidPayoutPolicy = "Invalid payout policy '%s'. Valid options: pari_mutuel, stake_multiple"
	ErrMsgInvalidScorer       = "Invalid scorer '%s'. Valid options: binary, confidence_weighted"
)

// Success messages for API responses
// These are user-facing success messages returned in JSON responses
const (
	MsgGameCancelledSuccess = "Game cancelled and stakes refunded"
)
