package domain

import (
	"fmt"
	"time"
)

// PredictionResult holds the settlement outcome for a single prediction.
// It is assigned exactly once, by PredictionGame.Settle.
type PredictionResult struct {
	Correct       bool      `json:"correct"`
	AccuracyScore float64   `json:"accuracy_score"`
	Reward        int64     `json:"reward"`
	SettledAt     time.Time `json:"settled_at"`
}

// Prediction is one user's stake on an option. Created by
// PredictionGame.AddPrediction, mutated once by settlement, never deleted.
type Prediction struct {
	ID               PredictionID      `json:"id"`
	UserID           UserID            `json:"user_id"`
	GameID           GameID            `json:"game_id"`
	SelectedOptionID string            `json:"selected_option_id"`
	Stake            int64             `json:"stake"`
	Confidence       float64           `json:"confidence"`
	Reasoning        string            `json:"reasoning,omitempty"`
	PlacedAt         time.Time         `json:"placed_at"`
	Result           *PredictionResult `json:"result,omitempty"`
}

// NewPrediction constructs a prediction, validating its own inputs.
// Stake bounds against the game configuration are the aggregate's concern;
// the entity only guards its intrinsic invariants.
func NewPrediction(gameID GameID, userID UserID, optionID string, stake int64, confidence float64, reasoning string) (*Prediction, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "user id must not be empty")
	}
	if optionID == "" {
		return nil, NewValidationError("selected_option_id", "option id must not be empty")
	}
	if stake <= 0 {
		return nil, NewValidationError("stake", "stake must be positive")
	}
	if confidence < 0 || confidence > 1 {
		return nil, NewValidationError("confidence", "confidence must be between 0 and 1")
	}

	return &Prediction{
		ID:               NewPredictionID(),
		UserID:           userID,
		GameID:           gameID,
		SelectedOptionID: optionID,
		Stake:            stake,
		Confidence:       confidence,
		Reasoning:        reasoning,
		PlacedAt:         time.Now().UTC(),
	}, nil
}

// IsSettled reports whether a result has been assigned
func (p *Prediction) IsSettled() bool {
	return p.Result != nil
}

// SetResult assigns the settlement outcome. A second attempt fails rather
// than silently overwriting; this is what guards against re-running settlement.
func (p *Prediction) SetResult(correct bool, accuracyScore float64, reward int64) error {
	if p.Result != nil {
		return fmt.Errorf("%w: prediction %s", ErrResultAlreadySet, p.ID)
	}
	p.Result = &PredictionResult{
		Correct:       correct,
		AccuracyScore: accuracyScore,
		Reward:        reward,
		SettledAt:     time.Now().UTC(),
	}
	return nil
}
