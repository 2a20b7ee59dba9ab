package game

import "github.com/predictarena/predictarena/internal/domain"

// Stock settlement policies. Settle accepts any AccuracyScorer and
// RewardCalculator pair; these cover the common cases and serve as the
// defaults for the settlement worker.

// BinaryAccuracy scores 1.0 for a correct prediction and 0.0 otherwise
func BinaryAccuracy() domain.AccuracyScorer {
	return domain.AccuracyScorerFunc(func(_ *domain.Prediction, correct bool) float64 {
		if correct {
			return 1.0
		}
		return 0.0
	})
}

// ConfidenceWeightedAccuracy rewards calibration: a correct prediction scores
// its stated confidence, an incorrect one scores the complement. A confident
// wrong answer therefore scores worse than a hesitant wrong answer.
func ConfidenceWeightedAccuracy() domain.AccuracyScorer {
	return domain.AccuracyScorerFunc(func(p *domain.Prediction, correct bool) float64 {
		if correct {
			return p.Confidence
		}
		return 1.0 - p.Confidence
	})
}

// PariMutuelPayout distributes the pool (minus the house cut) among winners
// in proportion to their stake share of the winning side. winningStake must
// be the sum of stakes on the correct option; integer division truncates, so
// the payout never exceeds the pool.
func PariMutuelPayout(winningStake int64, houseCutBasisPoints int64) domain.RewardCalculator {
	return domain.RewardCalculatorFunc(func(p *domain.Prediction, accuracyScore float64, totalPool int64) int64 {
		if accuracyScore <= 0 || winningStake <= 0 {
			return 0
		}
		distributable := totalPool - totalPool*houseCutBasisPoints/BasisPointsDenominator
		return distributable * p.Stake / winningStake
	})
}

// StakeMultiplePayout pays winners a fixed multiple of their stake and
// losers nothing. Simple fixed-odds alternative to the pari-mutuel pool.
func StakeMultiplePayout(multiple int64) domain.RewardCalculator {
	return domain.RewardCalculatorFunc(func(p *domain.Prediction, accuracyScore float64, _ int64) int64 {
		if accuracyScore <= 0 {
			return 0
		}
		return p.Stake * multiple
	})
}

// DefaultPolicies returns the policy pair used when the caller does not
// supply one: binary accuracy with a pari-mutuel payout over the game's
// winning stake.
func DefaultPolicies(g *domain.PredictionGame, correctOptionID string) (domain.AccuracyScorer, domain.RewardCalculator) {
	var winningStake int64
	for _, p := range g.Predictions {
		if p.SelectedOptionID == correctOptionID {
			winningStake += p.Stake
		}
	}
	return BinaryAccuracy(), PariMutuelPayout(winningStake, HouseCutBasisPoints)
}
