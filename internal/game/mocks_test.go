package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/predictarena/predictarena/internal/domain"
	"github.com/predictarena/predictarena/internal/event"
)

// MockRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, game *domain.PredictionGame) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockRepository) SaveWithVersion(ctx context.Context, game *domain.PredictionGame, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, game, expectedVersion)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockRepository) BulkUpdate(ctx context.Context, games []*domain.PredictionGame) error {
	args := m.Called(ctx, games)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionGame), args.Error(1)
}

func (m *MockRepository) FindByIDs(ctx context.Context, ids []domain.GameID) ([]*domain.PredictionGame, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PredictionGame), args.Error(1)
}

func (m *MockRepository) FindByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockRepository) FindByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, creatorID, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockRepository) FindByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockRepository) Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockRepository) FindActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(domain.PageResult[*domain.PredictionGame]), args.Error(1)
}

func (m *MockRepository) FindPendingSettlement(ctx context.Context, limit int) ([]*domain.PredictionGame, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PredictionGame), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id domain.GameID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id domain.GameID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameStatistics), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) DebitStake(ctx context.Context, userID domain.UserID, gameID domain.GameID, amount int64) error {
	args := m.Called(ctx, userID, gameID, amount)
	return args.Error(0)
}

func (m *MockLedger) CreditReward(ctx context.Context, userID domain.UserID, gameID domain.GameID, amount int64) error {
	args := m.Called(ctx, userID, gameID, amount)
	return args.Error(0)
}
