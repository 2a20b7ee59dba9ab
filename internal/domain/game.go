package domain

import (
	"fmt"
	"time"
)

// PredictionGame is the aggregate root of the prediction market. It
// exclusively owns its predictions, enforces the status state machine and
// runs settlement. The aggregate is a plain in-memory object with no internal
// locking; concurrent mutation is resolved at the persistence boundary via
// the Version counter (see repository.Game.SaveWithVersion).
type PredictionGame struct {
	ID          GameID                       `json:"id"`
	CreatorID   UserID                       `json:"creator_id"`
	Config      GameConfig                   `json:"config"`
	Status      GameStatus                   `json:"status"`
	Predictions map[PredictionID]*Prediction `json:"predictions"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
	Version     int64                        `json:"version"`
}

// GameStatistics summarizes participation in a game
type GameStatistics struct {
	TotalParticipants  int            `json:"total_participants"`
	TotalStake         int64          `json:"total_stake"`
	AverageConfidence  float64        `json:"average_confidence"`
	OptionDistribution map[string]int `json:"option_distribution"`
}

// ConfigUpdate carries administrative field updates. Nil fields are left
// untouched; the merged configuration is re-validated against the same
// invariants as creation.
type ConfigUpdate struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	SettlementTime  *time.Time `json:"settlement_time,omitempty"`
	MinStake        *int64     `json:"min_stake,omitempty"`
	MaxStake        *int64     `json:"max_stake,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
}

// NewPredictionGame validates the configuration and returns a new aggregate
// in the Created state.
func NewPredictionGame(creatorID UserID, cfg GameConfig) (*PredictionGame, error) {
	if creatorID == "" {
		return nil, NewValidationError("creator_id", "creator id must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PredictionGame{
		ID:          NewGameID(),
		CreatorID:   creatorID,
		Config:      cfg,
		Status:      StatusCreated,
		Predictions: make(map[PredictionID]*Prediction),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// transitionTo moves the game to next after consulting the transition table
func (g *PredictionGame) transitionTo(next GameStatus) error {
	if !g.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, next)
	}
	g.Status = next
	g.touch()
	return nil
}

func (g *PredictionGame) touch() {
	g.UpdatedAt = time.Now().UTC()
}

// Start opens the game for predictions. Legal only from Created, and not
// before the configured start time.
func (g *PredictionGame) Start() error {
	if !g.Status.CanTransitionTo(StatusActive) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, StatusActive)
	}
	if time.Now().Before(g.Config.StartTime) {
		return fmt.Errorf("%w: starts at %s", ErrInvalidStartTime, g.Config.StartTime.Format(time.RFC3339))
	}
	return g.transitionTo(StatusActive)
}

// AddPrediction validates and inserts one user's prediction. The checks run
// in a fixed order so callers always see the first violated rule:
// status, deadline, stake bounds, option, duplicate, capacity.
func (g *PredictionGame) AddPrediction(userID UserID, optionID string, stake int64, confidence float64, reasoning string) (PredictionID, error) {
	if !g.Status.IsPredictionAllowed() {
		return "", fmt.Errorf("%w (status: %s)", ErrGameNotActive, g.Status)
	}
	if time.Now().After(g.Config.EndTime) {
		return "", fmt.Errorf("%w (ended at %s)", ErrPredictionPeriodEnded, g.Config.EndTime.Format(time.RFC3339))
	}
	if stake < g.Config.MinStake || stake > g.Config.MaxStake {
		return "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidStakeAmount, stake, g.Config.MinStake, g.Config.MaxStake)
	}
	if !g.Config.HasOption(optionID) {
		return "", fmt.Errorf("%w: %s", ErrInvalidOption, optionID)
	}
	if g.HasParticipant(userID) {
		return "", fmt.Errorf("%w: user %s", ErrDuplicatePrediction, userID)
	}
	if g.Config.MaxParticipants > 0 && len(g.Predictions) >= g.Config.MaxParticipants {
		return "", fmt.Errorf("%w: cap %d", ErrMaxParticipants, g.Config.MaxParticipants)
	}

	p, err := NewPrediction(g.ID, userID, optionID, stake, confidence, reasoning)
	if err != nil {
		return "", err
	}

	g.Predictions[p.ID] = p
	g.touch()
	return p.ID, nil
}

// EndPredictionPeriod closes the prediction window. Legal only from Active,
// and only once the configured end time has passed.
func (g *PredictionGame) EndPredictionPeriod() error {
	if !g.Status.CanTransitionTo(StatusEnded) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, StatusEnded)
	}
	if time.Now().Before(g.Config.EndTime) {
		return fmt.Errorf("%w: ends at %s", ErrEarlyEndAttempt, g.Config.EndTime.Format(time.RFC3339))
	}
	return g.transitionTo(StatusEnded)
}

// Settle scores and rewards every prediction exactly once, then moves the
// game to Settled. The scorer and calculator are injected so the mechanism
// (one pass, shared pool total, exactly-once assignment) stays separate from
// the payout policy. On any failure no prediction is mutated and the status
// is left unchanged.
func (g *PredictionGame) Settle(correctOptionID string, scorer AccuracyScorer, calc RewardCalculator) (*SettlementOutcome, error) {
	if !g.Status.CanEvaluateResults() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, StatusSettled)
	}
	if time.Now().Before(g.Config.SettlementTime) {
		return nil, fmt.Errorf("%w: settles at %s", ErrEarlySettlement, g.Config.SettlementTime.Format(time.RFC3339))
	}
	if !g.Config.HasOption(correctOptionID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCorrectOption, correctOptionID)
	}
	if scorer == nil {
		return nil, NewValidationError("accuracy_scorer", "accuracy scorer is required")
	}
	if calc == nil {
		return nil, NewValidationError("reward_calculator", "reward calculator is required")
	}

	// Guard against partial re-settlement before mutating anything
	for _, p := range g.Predictions {
		if p.IsSettled() {
			return nil, fmt.Errorf("%w: prediction %s", ErrResultAlreadySet, p.ID)
		}
	}

	totalPool := g.TotalPool()

	outcome := &SettlementOutcome{
		GameID:          g.ID,
		CorrectOptionID: correctOptionID,
		TotalPool:       totalPool,
	}

	for _, p := range g.Predictions {
		correct := p.SelectedOptionID == correctOptionID
		accuracy := scorer.Score(p, correct)
		reward := calc.Reward(p, accuracy, totalPool)

		if err := p.SetResult(correct, accuracy, reward); err != nil {
			// Unreachable after the guard above; surface it rather than
			// continue with a mixed settlement.
			return nil, err
		}

		outcome.TotalPaid += reward
		if correct {
			outcome.WinnerCount++
		} else {
			outcome.LoserCount++
		}
	}

	if err := g.transitionTo(StatusSettled); err != nil {
		return nil, err
	}
	return outcome, nil
}

// Cancel moves the game to the terminal Cancelled state. Settled games stay
// settled.
func (g *PredictionGame) Cancel() error {
	if g.Status == StatusSettled {
		return ErrCannotCancelCompleted
	}
	return g.transitionTo(StatusCancelled)
}

// ApplyConfigUpdate merges administrative field updates and re-validates the
// full configuration. Disallowed once the game is settled or cancelled.
func (g *PredictionGame) ApplyConfigUpdate(upd ConfigUpdate) error {
	if g.Status.IsTerminal() {
		return fmt.Errorf("%w: %s games cannot be reconfigured", ErrInvalidTransition, g.Status)
	}

	cfg := g.Config
	if upd.Title != nil {
		cfg.Title = *upd.Title
	}
	if upd.Description != nil {
		cfg.Description = *upd.Description
	}
	if upd.EndTime != nil {
		cfg.EndTime = *upd.EndTime
	}
	if upd.SettlementTime != nil {
		cfg.SettlementTime = *upd.SettlementTime
	}
	if upd.MinStake != nil {
		cfg.MinStake = *upd.MinStake
	}
	if upd.MaxStake != nil {
		cfg.MaxStake = *upd.MaxStake
	}
	if upd.MaxParticipants != nil {
		cfg.MaxParticipants = *upd.MaxParticipants
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	g.Config = cfg
	g.touch()
	return nil
}

// Clone returns a deep copy of the aggregate. Repository decorators hand out
// clones so callers never share mutable prediction state.
func (g *PredictionGame) Clone() *PredictionGame {
	cp := *g
	cp.Config.Options = append([]Option(nil), g.Config.Options...)
	cp.Predictions = make(map[PredictionID]*Prediction, len(g.Predictions))
	for id, p := range g.Predictions {
		pc := *p
		if p.Result != nil {
			rc := *p.Result
			pc.Result = &rc
		}
		cp.Predictions[id] = &pc
	}
	return &cp
}

// HasParticipant reports whether userID already placed a prediction
func (g *PredictionGame) HasParticipant(userID UserID) bool {
	for _, p := range g.Predictions {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// PredictionByUser returns the user's prediction, or nil
func (g *PredictionGame) PredictionByUser(userID UserID) *Prediction {
	for _, p := range g.Predictions {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// TotalPool sums all stakes
func (g *PredictionGame) TotalPool() int64 {
	var total int64
	for _, p := range g.Predictions {
		total += p.Stake
	}
	return total
}

// Statistics computes participation numbers over the current predictions
func (g *PredictionGame) Statistics() GameStatistics {
	stats := GameStatistics{
		TotalParticipants:  len(g.Predictions),
		OptionDistribution: make(map[string]int),
	}

	var confidenceSum float64
	for _, p := range g.Predictions {
		stats.TotalStake += p.Stake
		confidenceSum += p.Confidence
		stats.OptionDistribution[p.SelectedOptionID]++
	}
	if stats.TotalParticipants > 0 {
		stats.AverageConfidence = confidenceSum / float64(stats.TotalParticipants)
	}
	return stats
}
