package domain

// AccuracyScorer turns a prediction's correctness into a policy-defined score.
// Implementations must be pure; the aggregate calls them once per prediction.
type AccuracyScorer interface {
	Score(p *Prediction, correct bool) float64
}

// RewardCalculator turns an accuracy score and the shared pool total into a
// reward amount for one prediction. The engine does not enforce any
// conservation law over the pool; that is the policy's responsibility.
type RewardCalculator interface {
	Reward(p *Prediction, accuracyScore float64, totalPool int64) int64
}

// AccuracyScorerFunc adapts a function to the AccuracyScorer interface
type AccuracyScorerFunc func(p *Prediction, correct bool) float64

// Score implements AccuracyScorer
func (f AccuracyScorerFunc) Score(p *Prediction, correct bool) float64 {
	return f(p, correct)
}

// RewardCalculatorFunc adapts a function to the RewardCalculator interface
type RewardCalculatorFunc func(p *Prediction, accuracyScore float64, totalPool int64) int64

// Reward implements RewardCalculator
func (f RewardCalculatorFunc) Reward(p *Prediction, accuracyScore float64, totalPool int64) int64 {
	return f(p, accuracyScore, totalPool)
}

// SettlementOutcome is the fact record produced by a successful settlement.
// The aggregate returns it instead of publishing events itself; the
// application layer decides what to do with it.
type SettlementOutcome struct {
	GameID          GameID `json:"game_id"`
	CorrectOptionID string `json:"correct_option_id"`
	TotalPool       int64  `json:"total_pool"`
	TotalPaid       int64  `json:"total_paid"`
	WinnerCount     int    `json:"winner_count"`
	LoserCount      int    `json:"loser_count"`
}
