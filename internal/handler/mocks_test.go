package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/predictarena/predictarena/internal/domain"
)

// MockGameService is a testify mock of game.Service
type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) Create(ctx context.Context, creatorID domain.UserID, cfg domain.GameConfig) (*domain.PredictionGame, error) {
	args := m.Called(ctx, creatorID, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockGameService) Start(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockGameService) PlacePrediction(ctx context.Context, id domain.GameID, userID domain.UserID, optionID string, stake int64, confidence float64, reasoning string) (*domain.Prediction, error) {
	args := m.Called(ctx, id, userID, optionID, stake, confidence, reasoning)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func (m *MockGameService) ClosePredictions(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockGameService) Settle(ctx context.Context, id domain.GameID, correctOptionID string, scorer domain.AccuracyScorer, calc domain.RewardCalculator) (*domain.SettlementOutcome, error) {
	args := m.Called(ctx, id, correctOptionID, scorer, calc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementOutcome), args.Error(1)
}

func (m *MockGameService) Cancel(ctx context.Context, id domain.GameID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGameService) Get(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockGameService) GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameStatistics), args.Error(1)
}

func (m *MockGameService) UpdateConfig(ctx context.Context, id domain.GameID, upd domain.ConfigUpdate) (*domain.PredictionGame, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockGameService) ListActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockGameService) ListByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockGameService) ListByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, creatorID, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockGameService) ListByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockGameService) Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockGameService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
