package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openConfig returns a config whose prediction window is currently open
func openConfig() GameConfig {
	cfg := validConfig()
	return cfg
}

// closedConfig returns a config whose prediction window and settlement time
// are both in the past, so the game can be ended and settled immediately.
func closedConfig() GameConfig {
	now := time.Now()
	cfg := validConfig()
	cfg.StartTime = now.Add(-3 * time.Hour)
	cfg.EndTime = now.Add(-2 * time.Hour)
	cfg.SettlementTime = now.Add(-time.Hour)
	return cfg
}

func newActiveGame(t *testing.T, cfg GameConfig) *PredictionGame {
	t.Helper()
	g, err := NewPredictionGame("creator-1", cfg)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g
}

// placePrediction inserts a prediction directly, bypassing the window checks.
// Used to build settled-game fixtures whose deadlines are already in the past.
func placePrediction(t *testing.T, g *PredictionGame, userID UserID, optionID string, stake int64, confidence float64) *Prediction {
	t.Helper()
	p, err := NewPrediction(g.ID, userID, optionID, stake, confidence, "")
	require.NoError(t, err)
	g.Predictions[p.ID] = p
	return p
}

// endedGameWithScenario builds the canonical three-player game: user1 stakes
// 10 on A, user2 stakes 20 on A, user3 stakes 15 on B, window closed.
func endedGameWithScenario(t *testing.T) *PredictionGame {
	t.Helper()
	g := newActiveGame(t, closedConfig())
	placePrediction(t, g, "user-1", "A", 10, 0.9)
	placePrediction(t, g, "user-2", "A", 20, 0.6)
	placePrediction(t, g, "user-3", "B", 15, 0.3)
	require.NoError(t, g.EndPredictionPeriod())
	return g
}

var (
	binaryScorer = AccuracyScorerFunc(func(p *Prediction, correct bool) float64 {
		if correct {
			return 1.0
		}
		return 0.0
	})
	doubleStakeCalc = RewardCalculatorFunc(func(p *Prediction, acc float64, pool int64) int64 {
		if acc > 0 {
			return p.Stake * 2
		}
		return 0
	})
)

func TestNewPredictionGame(t *testing.T) {
	t.Run("starts in created state", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, g.Status)
		assert.NotEmpty(t, g.ID)
		assert.Empty(t, g.Predictions)
		assert.Equal(t, int64(0), g.Version)
	})

	t.Run("rejects empty creator", func(t *testing.T) {
		_, err := NewPredictionGame("", openConfig())
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "creator_id", verr.Field)
	})

	t.Run("propagates config violations", func(t *testing.T) {
		cfg := openConfig()
		cfg.Title = ""
		_, err := NewPredictionGame("creator-1", cfg)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	})
}

func TestPredictionGameStart(t *testing.T) {
	t.Run("transitions created to active", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)
		require.NoError(t, g.Start())
		assert.Equal(t, StatusActive, g.Status)
	})

	t.Run("rejects start before configured start time", func(t *testing.T) {
		cfg := openConfig()
		cfg.StartTime = time.Now().Add(30 * time.Minute)
		g, err := NewPredictionGame("creator-1", cfg)
		require.NoError(t, err)

		err = g.Start()
		require.ErrorIs(t, err, ErrInvalidStartTime)
		assert.Equal(t, StatusCreated, g.Status)
	})

	t.Run("rejects double start", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		require.ErrorIs(t, g.Start(), ErrInvalidTransition)
	})
}

func TestAddPrediction(t *testing.T) {
	t.Run("accepts a valid prediction", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		id, err := g.AddPrediction("user-1", "A", 50, 0.7, "feels right")
		require.NoError(t, err)
		require.Contains(t, g.Predictions, id)
		assert.Equal(t, UserID("user-1"), g.Predictions[id].UserID)
	})

	t.Run("fails GAME_NOT_ACTIVE unless active", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)

		_, err = g.AddPrediction("user-1", "A", 50, 0.5, "")
		assert.ErrorIs(t, err, ErrGameNotActive)

		settled := endedGameWithScenario(t)
		_, err = settled.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)
		_, err = settled.AddPrediction("user-9", "A", 50, 0.5, "")
		assert.ErrorIs(t, err, ErrGameNotActive)
	})

	t.Run("fails PREDICTION_PERIOD_ENDED after end time while still active", func(t *testing.T) {
		g := newActiveGame(t, closedConfig())
		require.Equal(t, StatusActive, g.Status)

		_, err := g.AddPrediction("user-1", "A", 50, 0.5, "")
		assert.ErrorIs(t, err, ErrPredictionPeriodEnded)
	})

	t.Run("fails INVALID_STAKE_AMOUNT outside bounds", func(t *testing.T) {
		g := newActiveGame(t, openConfig())

		_, err := g.AddPrediction("user-1", "A", 9, 0.5, "")
		assert.ErrorIs(t, err, ErrInvalidStakeAmount)

		_, err = g.AddPrediction("user-1", "A", 1001, 0.5, "")
		assert.ErrorIs(t, err, ErrInvalidStakeAmount)
	})

	t.Run("stake bounds are inclusive", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		_, err := g.AddPrediction("user-1", "A", 10, 0.5, "")
		assert.NoError(t, err)
		_, err = g.AddPrediction("user-2", "A", 1000, 0.5, "")
		assert.NoError(t, err)
	})

	t.Run("fails INVALID_OPTION for unknown option", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		_, err := g.AddPrediction("user-1", "C", 50, 0.5, "")
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("fails DUPLICATE_PREDICTION for a second prediction by the same user", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		_, err := g.AddPrediction("user-1", "A", 50, 0.5, "")
		require.NoError(t, err)

		_, err = g.AddPrediction("user-1", "B", 60, 0.5, "")
		assert.ErrorIs(t, err, ErrDuplicatePrediction)
		assert.Len(t, g.Predictions, 1)
	})

	t.Run("fails MAX_PARTICIPANTS_REACHED at the cap", func(t *testing.T) {
		cfg := openConfig()
		cfg.MaxParticipants = 2
		g := newActiveGame(t, cfg)

		_, err := g.AddPrediction("user-1", "A", 50, 0.5, "")
		require.NoError(t, err)
		_, err = g.AddPrediction("user-2", "B", 50, 0.5, "")
		require.NoError(t, err)

		_, err = g.AddPrediction("user-3", "A", 50, 0.5, "")
		assert.ErrorIs(t, err, ErrMaxParticipants)
	})

	t.Run("reports the first violated rule", func(t *testing.T) {
		// Stake and option are both invalid; stake is checked first
		g := newActiveGame(t, openConfig())
		_, err := g.AddPrediction("user-1", "C", 1, 0.5, "")
		assert.ErrorIs(t, err, ErrInvalidStakeAmount)
	})

	t.Run("rejected prediction leaves no partial insert", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		_, err := g.AddPrediction("user-1", "A", 50, 1.5, "")
		require.Error(t, err)
		assert.Empty(t, g.Predictions)
	})
}

func TestEndPredictionPeriod(t *testing.T) {
	t.Run("transitions active to ended once the window closed", func(t *testing.T) {
		g := newActiveGame(t, closedConfig())
		require.NoError(t, g.EndPredictionPeriod())
		assert.Equal(t, StatusEnded, g.Status)
	})

	t.Run("fails EARLY_END_ATTEMPT before end time", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		err := g.EndPredictionPeriod()
		require.ErrorIs(t, err, ErrEarlyEndAttempt)
		assert.Equal(t, StatusActive, g.Status)
	})

	t.Run("fails outside active", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", closedConfig())
		require.NoError(t, err)
		assert.ErrorIs(t, g.EndPredictionPeriod(), ErrInvalidTransition)
	})
}

func TestSettle(t *testing.T) {
	t.Run("scores and rewards every prediction exactly once", func(t *testing.T) {
		g := endedGameWithScenario(t)
		require.Equal(t, int64(45), g.TotalPool())

		outcome, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)
		assert.Equal(t, StatusSettled, g.Status)

		assert.Equal(t, int64(45), outcome.TotalPool)
		assert.Equal(t, int64(60), outcome.TotalPaid)
		assert.Equal(t, 2, outcome.WinnerCount)
		assert.Equal(t, 1, outcome.LoserCount)
		assert.Equal(t, "A", outcome.CorrectOptionID)

		byUser := map[UserID]*Prediction{}
		for _, p := range g.Predictions {
			require.True(t, p.IsSettled())
			byUser[p.UserID] = p
		}
		assert.Equal(t, int64(20), byUser["user-1"].Result.Reward)
		assert.Equal(t, int64(40), byUser["user-2"].Result.Reward)
		assert.Equal(t, int64(0), byUser["user-3"].Result.Reward)
		assert.True(t, byUser["user-1"].Result.Correct)
		assert.True(t, byUser["user-2"].Result.Correct)
		assert.False(t, byUser["user-3"].Result.Correct)
	})

	t.Run("fails outside ended", func(t *testing.T) {
		g := newActiveGame(t, closedConfig())
		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("fails EARLY_SETTLEMENT_ATTEMPT before settlement time", func(t *testing.T) {
		now := time.Now()
		cfg := validConfig()
		cfg.StartTime = now.Add(-2 * time.Hour)
		cfg.EndTime = now.Add(-time.Hour)
		cfg.SettlementTime = now.Add(time.Hour)

		g := newActiveGame(t, cfg)
		require.NoError(t, g.EndPredictionPeriod())

		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.ErrorIs(t, err, ErrEarlySettlement)
		assert.Equal(t, StatusEnded, g.Status)
	})

	t.Run("fails INVALID_CORRECT_OPTION", func(t *testing.T) {
		g := endedGameWithScenario(t)
		_, err := g.Settle("C", binaryScorer, doubleStakeCalc)
		assert.ErrorIs(t, err, ErrInvalidCorrectOption)
		assert.Equal(t, StatusEnded, g.Status)
	})

	t.Run("requires both policies", func(t *testing.T) {
		g := endedGameWithScenario(t)
		_, err := g.Settle("A", nil, doubleStakeCalc)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		_, err = g.Settle("A", binaryScorer, nil)
		require.ErrorAs(t, err, &verr)
	})

	t.Run("second settlement fails and mutates nothing", func(t *testing.T) {
		g := endedGameWithScenario(t)
		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)

		_, err = g.Settle("B", binaryScorer, doubleStakeCalc)
		require.ErrorIs(t, err, ErrInvalidTransition)

		for _, p := range g.Predictions {
			assert.Equal(t, p.SelectedOptionID == "A", p.Result.Correct)
		}
	})

	t.Run("pre-settled prediction aborts before any mutation", func(t *testing.T) {
		g := endedGameWithScenario(t)
		var tainted *Prediction
		for _, p := range g.Predictions {
			tainted = p
			break
		}
		require.NoError(t, tainted.SetResult(false, 0, 0))

		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.ErrorIs(t, err, ErrResultAlreadySet)
		assert.Equal(t, StatusEnded, g.Status, "status must not advance")

		settled := 0
		for _, p := range g.Predictions {
			if p.IsSettled() {
				settled++
			}
		}
		assert.Equal(t, 1, settled, "no mixed settlement")
	})

	t.Run("settles an empty game", func(t *testing.T) {
		g := newActiveGame(t, closedConfig())
		require.NoError(t, g.EndPredictionPeriod())

		outcome, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)
		assert.Equal(t, int64(0), outcome.TotalPool)
		assert.Equal(t, 0, outcome.WinnerCount)
		assert.Equal(t, StatusSettled, g.Status)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancels from any pre-settlement state", func(t *testing.T) {
		created, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)
		require.NoError(t, created.Cancel())
		assert.Equal(t, StatusCancelled, created.Status)

		active := newActiveGame(t, openConfig())
		require.NoError(t, active.Cancel())

		ended := endedGameWithScenario(t)
		require.NoError(t, ended.Cancel())
	})

	t.Run("fails CANNOT_CANCEL_COMPLETED once settled", func(t *testing.T) {
		g := endedGameWithScenario(t)
		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)

		err = g.Cancel()
		require.ErrorIs(t, err, ErrCannotCancelCompleted)
		assert.Equal(t, StatusSettled, g.Status)
	})

	t.Run("fails on a second cancel", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)
		require.NoError(t, g.Cancel())
		assert.ErrorIs(t, g.Cancel(), ErrInvalidTransition)
	})
}

func TestApplyConfigUpdate(t *testing.T) {
	t.Run("merges fields and revalidates", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		title := "Updated title"
		maxStake := int64(5000)
		require.NoError(t, g.ApplyConfigUpdate(ConfigUpdate{Title: &title, MaxStake: &maxStake}))
		assert.Equal(t, "Updated title", g.Config.Title)
		assert.Equal(t, int64(5000), g.Config.MaxStake)
	})

	t.Run("rejects updates violating the ordering invariants", func(t *testing.T) {
		g := newActiveGame(t, openConfig())
		badEnd := g.Config.SettlementTime.Add(time.Hour)

		err := g.ApplyConfigUpdate(ConfigUpdate{EndTime: &badEnd})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "settlement_time", verr.Field)
		assert.NotEqual(t, badEnd, g.Config.EndTime, "config must be unchanged")
	})

	t.Run("rejects updates on terminal games", func(t *testing.T) {
		g := endedGameWithScenario(t)
		_, err := g.Settle("A", binaryScorer, doubleStakeCalc)
		require.NoError(t, err)

		title := "too late"
		assert.ErrorIs(t, g.ApplyConfigUpdate(ConfigUpdate{Title: &title}), ErrInvalidTransition)
	})
}

func TestStatistics(t *testing.T) {
	t.Run("summarizes the canonical scenario", func(t *testing.T) {
		g := endedGameWithScenario(t)
		stats := g.Statistics()

		assert.Equal(t, 3, stats.TotalParticipants)
		assert.Equal(t, int64(45), stats.TotalStake)
		assert.Equal(t, map[string]int{"A": 2, "B": 1}, stats.OptionDistribution)
		assert.InDelta(t, (0.9+0.6+0.3)/3, stats.AverageConfidence, 1e-9)
	})

	t.Run("empty game yields zeroes", func(t *testing.T) {
		g, err := NewPredictionGame("creator-1", openConfig())
		require.NoError(t, err)

		stats := g.Statistics()
		assert.Equal(t, 0, stats.TotalParticipants)
		assert.Equal(t, int64(0), stats.TotalStake)
		assert.Zero(t, stats.AverageConfidence)
		assert.Empty(t, stats.OptionDistribution)
	})
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, CodeGameNotActive, CodeOf(ErrGameNotActive))
	assert.Equal(t, CodeConcurrentModification, CodeOf(ErrConcurrentModification))
	assert.Equal(t, ErrorCode(""), CodeOf(assert.AnError))
}
