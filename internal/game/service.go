package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/predictarena/predictarena/internal/domain"
	"github.com/predictarena/predictarena/internal/event"
	"github.com/predictarena/predictarena/internal/logger"
	"github.com/predictarena/predictarena/internal/metrics"
	"github.com/predictarena/predictarena/internal/repository"
)

// Service defines the interface for prediction game operations
type Service interface {
	Create(ctx context.Context, creatorID domain.UserID, cfg domain.GameConfig) (*domain.PredictionGame, error)
	Start(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error)
	PlacePrediction(ctx context.Context, id domain.GameID, userID domain.UserID, optionID string, stake int64, confidence float64, reasoning string) (*domain.Prediction, error)
	ClosePredictions(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error)
	Settle(ctx context.Context, id domain.GameID, correctOptionID string, scorer domain.AccuracyScorer, calc domain.RewardCalculator) (*domain.SettlementOutcome, error)
	Cancel(ctx context.Context, id domain.GameID) error
	Get(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error)
	GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error)
	UpdateConfig(ctx context.Context, id domain.GameID, upd domain.ConfigUpdate) (*domain.PredictionGame, error)
	ListActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	ListByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	ListByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	ListByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	Shutdown(ctx context.Context) error
}

// Ledger defines the interface for point movements. Amounts only; account
// balances and currency live elsewhere.
type Ledger interface {
	DebitStake(ctx context.Context, userID domain.UserID, gameID domain.GameID, amount int64) error
	CreditReward(ctx context.Context, userID domain.UserID, gameID domain.GameID, amount int64) error
}

type service struct {
	repo     repository.Game
	eventBus event.Bus
	ledger   Ledger
	wg       sync.WaitGroup // Tracks async goroutines for graceful shutdown
}

// NewService creates a new game service. eventBus and ledger may be nil;
// the service degrades to no event publishing and no point movements.
func NewService(repo repository.Game, eventBus event.Bus, ledger Ledger) Service {
	return &service{
		repo:     repo,
		eventBus: eventBus,
		ledger:   ledger,
	}
}

// Create validates the configuration and persists a new game in the Created
// state
func (s *service) Create(ctx context.Context, creatorID domain.UserID, cfg domain.GameConfig) (*domain.PredictionGame, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateCalled, "creatorID", creatorID, "title", cfg.Title, "predictionType", cfg.PredictionType)

	g, err := domain.NewPredictionGame(creatorID, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToSaveGame, err)
	}

	metrics.GamesCreated.WithLabelValues(string(cfg.PredictionType)).Inc()
	s.publish(ctx, event.NewGameCreatedEvent(g))

	return g, nil
}

// Start opens the prediction window
func (s *service) Start(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgStartCalled, "gameID", id)

	g, err := s.mutate(ctx, id, "start", func(g *domain.PredictionGame) error {
		return g.Start()
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGameStatusEvent(event.GameStarted, g.ID, g.Status))
	return g, nil
}

// PlacePrediction debits the stake and records the participant's prediction.
// The stake is refunded when the prediction is ultimately rejected.
func (s *service) PlacePrediction(ctx context.Context, id domain.GameID, userID domain.UserID, optionID string, stake int64, confidence float64, reasoning string) (*domain.Prediction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPlacePredictionCalled, "gameID", id, "userID", userID, "optionID", optionID, "stake", stake)

	if s.ledger != nil {
		if err := s.ledger.DebitStake(ctx, userID, id, stake); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToDebitStake, err)
		}
	}

	g, err := s.mutate(ctx, id, "place_prediction", func(g *domain.PredictionGame) error {
		_, addErr := g.AddPrediction(userID, optionID, stake, confidence, reasoning)
		return addErr
	})
	if err != nil {
		s.refundStake(ctx, userID, id, stake)
		return nil, err
	}

	p := g.PredictionByUser(userID)
	if p == nil {
		// The aggregate accepted the prediction; its absence here means the
		// reload raced a concurrent removal, which the model does not allow.
		return nil, fmt.Errorf("%s: prediction missing after save", ErrContextFailedToGetGame)
	}

	metrics.PredictionsPlaced.Inc()
	metrics.StakePooled.Add(float64(stake))
	s.publish(ctx, event.NewPredictionPlacedEvent(g, p))

	return p, nil
}

// ClosePredictions ends the prediction window once EndTime has passed
func (s *service) ClosePredictions(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClosePredictionsCalled, "gameID", id)

	g, err := s.mutate(ctx, id, "close_predictions", func(g *domain.PredictionGame) error {
		return g.EndPredictionPeriod()
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewGameStatusEvent(event.GameEnded, g.ID, g.Status))
	return g, nil
}

// Settle evaluates results and distributes rewards. Nil policies fall back
// to binary accuracy with a pari-mutuel payout.
func (s *service) Settle(ctx context.Context, id domain.GameID, correctOptionID string, scorer domain.AccuracyScorer, calc domain.RewardCalculator) (*domain.SettlementOutcome, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSettleCalled, "gameID", id, "correctOptionID", correctOptionID)

	started := time.Now()

	var outcome *domain.SettlementOutcome
	g, err := s.mutate(ctx, id, "settle", func(g *domain.PredictionGame) error {
		gameScorer, gameCalc := scorer, calc
		if gameScorer == nil || gameCalc == nil {
			defaultScorer, defaultCalc := DefaultPolicies(g, correctOptionID)
			if gameScorer == nil {
				gameScorer = defaultScorer
			}
			if gameCalc == nil {
				gameCalc = defaultCalc
			}
		}

		var settleErr error
		outcome, settleErr = g.Settle(correctOptionID, gameScorer, gameCalc)
		return settleErr
	})
	if err != nil {
		return nil, err
	}

	metrics.GamesSettled.Inc()
	metrics.SettlementDuration.Observe(time.Since(started).Seconds())
	s.publish(ctx, event.NewGameSettledEvent(outcome))

	s.creditRewards(g)

	return outcome, nil
}

// Cancel terminates the game. Stakes already pooled are returned to their
// owners.
func (s *service) Cancel(ctx context.Context, id domain.GameID) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCancelCalled, "gameID", id)

	g, err := s.mutate(ctx, id, "cancel", func(g *domain.PredictionGame) error {
		return g.Cancel()
	})
	if err != nil {
		return err
	}

	metrics.GamesCancelled.Inc()
	s.publish(ctx, event.NewGameStatusEvent(event.GameCancelled, g.ID, g.Status))

	s.refundAll(g)

	return nil
}

// Get returns the aggregate by ID
func (s *service) Get(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetGame, err)
	}
	return g, nil
}

// GetStatistics returns participation statistics for a game
func (s *service) GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error) {
	stats, err := s.repo.GetStatistics(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetStatistics, err)
	}
	return stats, nil
}

// UpdateConfig applies administrative field updates
func (s *service) UpdateConfig(ctx context.Context, id domain.GameID, upd domain.ConfigUpdate) (*domain.PredictionGame, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgUpdateConfigCalled, "gameID", id)

	return s.mutate(ctx, id, "update_config", func(g *domain.PredictionGame) error {
		return g.ApplyConfigUpdate(upd)
	})
}

// ListActive lists games currently accepting predictions
func (s *service) ListActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	res, err := s.repo.FindActive(ctx, page)
	if err != nil {
		return domain.PageResult[*domain.PredictionGame]{}, fmt.Errorf("%s: %w", ErrContextFailedToListGames, err)
	}
	return res, nil
}

// ListByStatus lists games in a given lifecycle state
func (s *service) ListByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	if !status.IsValid() {
		return domain.PageResult[*domain.PredictionGame]{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	res, err := s.repo.FindByStatus(ctx, status, page)
	if err != nil {
		return domain.PageResult[*domain.PredictionGame]{}, fmt.Errorf("%s: %w", ErrContextFailedToListGames, err)
	}
	return res, nil
}

// ListByCreator lists games created by a user
func (s *service) ListByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	res, err := s.repo.FindByCreator(ctx, creatorID, page)
	if err != nil {
		return domain.PageResult[*domain.PredictionGame]{}, fmt.Errorf("%s: %w", ErrContextFailedToListGames, err)
	}
	return res, nil
}

// ListByParticipant lists games a user has predicted in
func (s *service) ListByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	res, err := s.repo.FindByParticipant(ctx, userID, page)
	if err != nil {
		return domain.PageResult[*domain.PredictionGame]{}, fmt.Errorf("%s: %w", ErrContextFailedToListGames, err)
	}
	return res, nil
}

// Search lists games matching the filter
func (s *service) Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	res, err := s.repo.Search(ctx, filter, page)
	if err != nil {
		return domain.PageResult[*domain.PredictionGame]{}, fmt.Errorf("%s: %w", ErrContextFailedToListGames, err)
	}
	return res, nil
}

// Shutdown gracefully shuts down the game service by waiting for all async
// operations to complete
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDownGameService)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgGameServiceShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgGameServiceShutdownForced)
		return ctx.Err()
	}
}

// mutate runs the load -> mutate -> compare-and-swap loop, retrying a
// bounded number of times on version conflicts. fn must be idempotent on a
// freshly loaded aggregate.
func (s *service) mutate(ctx context.Context, id domain.GameID, operation string, fn func(*domain.PredictionGame) error) (*domain.PredictionGame, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < MaxSaveRetries; attempt++ {
		g, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetGame, err)
		}

		if err := fn(g); err != nil {
			return nil, err
		}

		newVersion, err := s.repo.SaveWithVersion(ctx, g, g.Version)
		if err == nil {
			g.Version = newVersion
			return g, nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToSaveGame, err)
		}

		metrics.VersionConflicts.WithLabelValues(operation).Inc()
		log.Warn(LogMsgVersionConflictRetrying, "gameID", id, "operation", operation, "attempt", attempt+1)
		lastErr = err
	}

	return nil, fmt.Errorf("%s (%d attempts): %w", ErrContextRetriesExhausted, MaxSaveRetries, lastErr)
}

// publish sends an event when a bus is configured
func (s *service) publish(ctx context.Context, e event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("event publish failed", "eventType", e.Type, "error", err)
	}
}

// creditRewards pays out settled rewards asynchronously. Failures are logged
// and left for reconciliation; the settlement itself has already committed.
func (s *service) creditRewards(g *domain.PredictionGame) {
	if s.ledger == nil {
		return
	}
	for _, p := range g.Predictions {
		if p.Result == nil || p.Result.Reward <= 0 {
			continue
		}
		s.wg.Add(1)
		go func(userID domain.UserID, reward int64) {
			defer s.wg.Done()
			ctx := context.Background()
			if err := s.ledger.CreditReward(ctx, userID, g.ID, reward); err != nil {
				logger.FromContext(ctx).Error(LogMsgLedgerCreditFailed,
					"gameID", g.ID, "userID", userID, "amount", reward, "error", err)
			}
		}(p.UserID, p.Result.Reward)
	}
}

// refundAll returns every pooled stake after a cancellation
func (s *service) refundAll(g *domain.PredictionGame) {
	if s.ledger == nil {
		return
	}
	for _, p := range g.Predictions {
		s.wg.Add(1)
		go func(userID domain.UserID, stake int64) {
			defer s.wg.Done()
			ctx := context.Background()
			if err := s.ledger.CreditReward(ctx, userID, g.ID, stake); err != nil {
				logger.FromContext(ctx).Error(LogMsgLedgerCreditFailed,
					"gameID", g.ID, "userID", userID, "amount", stake, "error", err)
			}
		}(p.UserID, p.Stake)
	}
}

// refundStake returns a single debited stake after a rejected prediction
func (s *service) refundStake(ctx context.Context, userID domain.UserID, gameID domain.GameID, stake int64) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.CreditReward(ctx, userID, gameID, stake); err != nil {
		logger.FromContext(ctx).Error(LogMsgLedgerCreditFailed,
			"gameID", gameID, "userID", userID, "amount", stake, "error", err)
	}
}
