package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictarena/predictarena/internal/database/postgres"
	"github.com/predictarena/predictarena/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Game repository.Game
}

// InitializeRepositories creates the repository implementations. The game
// repository is wrapped in an LRU read cache sized from configuration.
func InitializeRepositories(dbPool *pgxpool.Pool, cacheSize int) (*Repositories, error) {
	gameRepo, err := repository.NewCachedGame(postgres.NewGameRepository(dbPool), cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateGameCache, err)
	}

	slog.Info(LogMsgRepositoriesInitialized, "game_cache_size", cacheSize)

	return &Repositories{Game: gameRepo}, nil
}
