package domain

import "time"

// PredictionType classifies the shape of a game's outcome space
type PredictionType string

const (
	PredictionTypeBinary      PredictionType = "BINARY"
	PredictionTypeWinDrawLose PredictionType = "WIN_DRAW_LOSE"
	PredictionTypeRanking     PredictionType = "RANKING"
)

// IsValid reports whether t is a known prediction type
func (t PredictionType) IsValid() bool {
	switch t {
	case PredictionTypeBinary, PredictionTypeWinDrawLose, PredictionTypeRanking:
		return true
	}
	return false
}

// Option is one outcome a participant can back
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// GameConfig describes the rules of a prediction market. It is fixed at game
// creation; administrative updates go through PredictionGame.UpdateConfig so
// the ordering invariants are re-checked rather than silently clamped.
type GameConfig struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	PredictionType  PredictionType `json:"prediction_type"`
	Options         []Option       `json:"options"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         time.Time      `json:"end_time"`
	SettlementTime  time.Time      `json:"settlement_time"`
	MinStake        int64          `json:"min_stake"`
	MaxStake        int64          `json:"max_stake"`
	MaxParticipants int            `json:"max_participants,omitempty"` // 0 = uncapped
}

// Validate checks every configuration invariant and returns a field-scoped
// ValidationError for the first violation found.
func (c GameConfig) Validate() error {
	if c.Title == "" {
		return NewValidationError("title", "title must not be empty")
	}
	if !c.PredictionType.IsValid() {
		return NewValidationError("prediction_type", "unknown prediction type")
	}
	if len(c.Options) < 2 {
		return NewValidationError("options", "at least two options are required")
	}
	seen := make(map[string]struct{}, len(c.Options))
	for _, opt := range c.Options {
		if opt.ID == "" {
			return NewValidationError("options", "option id must not be empty")
		}
		if _, dup := seen[opt.ID]; dup {
			return NewValidationError("options", "option ids must be unique: "+opt.ID)
		}
		seen[opt.ID] = struct{}{}
	}
	if !c.StartTime.Before(c.EndTime) {
		return NewValidationError("end_time", "end time must be after start time")
	}
	if !c.EndTime.Before(c.SettlementTime) {
		return NewValidationError("settlement_time", "settlement time must be after end time")
	}
	if c.MinStake < 0 {
		return NewValidationError("min_stake", "minimum stake must not be negative")
	}
	if c.MinStake >= c.MaxStake {
		return NewValidationError("max_stake", "maximum stake must exceed minimum stake")
	}
	if c.MaxParticipants < 0 {
		return NewValidationError("max_participants", "participant cap must be positive")
	}
	return nil
}

// HasOption reports whether optionID is one of the configured options
func (c GameConfig) HasOption(optionID string) bool {
	for _, opt := range c.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
