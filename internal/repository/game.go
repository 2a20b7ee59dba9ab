package repository

import (
	"context"

	"github.com/predictarena/predictarena/internal/domain"
)

// Game defines the persistence contract for prediction game aggregates.
// Implementations load and store whole aggregates (game plus its predictions);
// callers follow the load -> mutate -> SaveWithVersion pattern and retry on
// domain.ErrConcurrentModification.
type Game interface {
	// Save inserts a new aggregate or overwrites an existing one
	// unconditionally. New aggregates get version 1.
	Save(ctx context.Context, game *domain.PredictionGame) error

	// SaveWithVersion performs an atomic compare-and-swap on the stored
	// version. It returns the new version on success and
	// domain.ErrConcurrentModification when the stored version no longer
	// matches expectedVersion.
	SaveWithVersion(ctx context.Context, game *domain.PredictionGame, expectedVersion int64) (int64, error)

	// BulkUpdate saves several aggregates in one transaction
	BulkUpdate(ctx context.Context, games []*domain.PredictionGame) error

	// FindByID returns domain.ErrGameNotFound when no live row matches
	FindByID(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error)
	FindByIDs(ctx context.Context, ids []domain.GameID) ([]*domain.PredictionGame, error)

	FindByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	FindByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	FindByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)
	Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)

	// FindActive lists games currently accepting predictions
	FindActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error)

	// FindPendingSettlement lists ended games whose settlement time has
	// passed, oldest first, up to limit rows.
	FindPendingSettlement(ctx context.Context, limit int) ([]*domain.PredictionGame, error)

	Exists(ctx context.Context, id domain.GameID) (bool, error)

	// Delete soft-deletes the aggregate; subsequent reads behave as not found
	Delete(ctx context.Context, id domain.GameID) error

	GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error)
}
