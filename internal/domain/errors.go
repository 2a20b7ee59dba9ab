package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a business-rule violation. Codes are stable identifiers
// used by API error mapping and by tests; messages are free to change.
type ErrorCode string

const (
	CodeGameNotActive         ErrorCode = "GAME_NOT_ACTIVE"
	CodePredictionPeriodEnded ErrorCode = "PREDICTION_PERIOD_ENDED"
	CodeInvalidStakeAmount    ErrorCode = "INVALID_STAKE_AMOUNT"
	CodeInvalidOption         ErrorCode = "INVALID_OPTION"
	CodeDuplicatePrediction   ErrorCode = "DUPLICATE_PREDICTION"
	CodeMaxParticipants       ErrorCode = "MAX_PARTICIPANTS_REACHED"
	CodeInvalidTransition     ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeInvalidStartTime      ErrorCode = "INVALID_START_TIME"
	CodeEarlyEndAttempt       ErrorCode = "EARLY_END_ATTEMPT"
	CodeEarlySettlement       ErrorCode = "EARLY_SETTLEMENT_ATTEMPT"
	CodeInvalidCorrectOption  ErrorCode = "INVALID_CORRECT_OPTION"
	CodeResultAlreadySet      ErrorCode = "RESULT_ALREADY_SET"
	CodeCannotCancelCompleted ErrorCode = "CANNOT_CANCEL_COMPLETED"
)

// Repository error codes
const (
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeSaveFailed             ErrorCode = "SAVE_FAILED"
	CodeQueryFailed            ErrorCode = "QUERY_FAILED"
	CodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
)

// DomainError is a business-rule violation surfaced by the aggregate.
// The sentinel instances below are singletons; match them with errors.Is and
// wrap them with fmt.Errorf("%w: ...") for additional context.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code and message
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel business-rule errors
var (
	ErrGameNotActive         = NewDomainError(CodeGameNotActive, "game is not accepting predictions")
	ErrPredictionPeriodEnded = NewDomainError(CodePredictionPeriodEnded, "prediction period has ended")
	ErrInvalidStakeAmount    = NewDomainError(CodeInvalidStakeAmount, "stake is outside the configured bounds")
	ErrInvalidOption         = NewDomainError(CodeInvalidOption, "selected option is not part of this game")
	ErrDuplicatePrediction   = NewDomainError(CodeDuplicatePrediction, "user has already placed a prediction")
	ErrMaxParticipants       = NewDomainError(CodeMaxParticipants, "game has reached its participant cap")
	ErrInvalidTransition     = NewDomainError(CodeInvalidTransition, "illegal game status transition")
	ErrInvalidStartTime      = NewDomainError(CodeInvalidStartTime, "game cannot start before its configured start time")
	ErrEarlyEndAttempt       = NewDomainError(CodeEarlyEndAttempt, "prediction period cannot end before the configured end time")
	ErrEarlySettlement       = NewDomainError(CodeEarlySettlement, "game cannot settle before the configured settlement time")
	ErrInvalidCorrectOption  = NewDomainError(CodeInvalidCorrectOption, "correct option is not part of this game")
	ErrResultAlreadySet      = NewDomainError(CodeResultAlreadySet, "prediction result has already been assigned")
	ErrCannotCancelCompleted = NewDomainError(CodeCannotCancelCompleted, "settled games cannot be cancelled")
)

// RepositoryError is a persistence failure surfaced by a repository
// implementation. Like DomainError, the sentinels are matched with errors.Is.
type RepositoryError struct {
	Code    ErrorCode
	Message string
}

func (e *RepositoryError) Error() string {
	return e.Message
}

// Sentinel repository errors
var (
	ErrGameNotFound           = &RepositoryError{Code: CodeNotFound, Message: "game not found"}
	ErrSaveFailed             = &RepositoryError{Code: CodeSaveFailed, Message: "failed to save game"}
	ErrQueryFailed            = &RepositoryError{Code: CodeQueryFailed, Message: "query failed"}
	ErrConcurrentModification = &RepositoryError{Code: CodeConcurrentModification, Message: "game was modified concurrently"}
)

// ValidationError reports a malformed configuration or prediction input,
// scoped to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CodeOf extracts the error code from a domain or repository error anywhere in
// err's chain. Returns an empty code when err carries none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
