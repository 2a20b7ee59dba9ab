package domain

// GameStatus represents the lifecycle state of a prediction game
type GameStatus string

const (
	StatusCreated   GameStatus = "Created"
	StatusActive    GameStatus = "Active"
	StatusEnded     GameStatus = "Ended"
	StatusSettled   GameStatus = "Settled"
	StatusCancelled GameStatus = "Cancelled"
)

// transitions is the single source of truth for legal status changes.
// Each state has exactly one forward successor; Cancelled is reachable from
// any pre-settlement state. Settled and Cancelled are terminal.
var transitions = map[GameStatus][]GameStatus{
	StatusCreated:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusEnded, StatusCancelled},
	StatusEnded:     {StatusSettled, StatusCancelled},
	StatusSettled:   {},
	StatusCancelled: {},
}

// IsValid reports whether s is a known status
func (s GameStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo consults the transition table; no skipping, no going back.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsPredictionAllowed reports whether predictions may be placed in this state
func (s GameStatus) IsPredictionAllowed() bool {
	return s == StatusActive
}

// CanEvaluateResults reports whether outcomes may be scored in this state
func (s GameStatus) CanEvaluateResults() bool {
	return s == StatusEnded
}

// CanDistributeRewards reports whether rewards may be computed in this state
func (s GameStatus) CanDistributeRewards() bool {
	return s == StatusEnded
}

// IsTerminal reports whether the state has no legal successor
func (s GameStatus) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}
