package repository

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/predictarena/predictarena/internal/domain"
)

// CachedGame wraps a Game repository with an LRU read cache keyed by game id.
// Only single-aggregate reads are cached; listing queries always hit the
// store. Every write path invalidates the affected entries, so a cached
// aggregate is never newer than the store, only at most as stale as the last
// local write.
type CachedGame struct {
	inner Game
	cache *lru.Cache[domain.GameID, *domain.PredictionGame]
}

// NewCachedGame creates a caching decorator with the given capacity
func NewCachedGame(inner Game, size int) (*CachedGame, error) {
	cache, err := lru.New[domain.GameID, *domain.PredictionGame](size)
	if err != nil {
		return nil, err
	}
	return &CachedGame{inner: inner, cache: cache}, nil
}

// Save stores the aggregate and invalidates its cache entry
func (c *CachedGame) Save(ctx context.Context, game *domain.PredictionGame) error {
	if err := c.inner.Save(ctx, game); err != nil {
		return err
	}
	c.cache.Remove(game.ID)
	return nil
}

// SaveWithVersion performs the CAS save and invalidates the cache entry
// regardless of outcome; on a version conflict the cached copy is stale by
// definition.
func (c *CachedGame) SaveWithVersion(ctx context.Context, game *domain.PredictionGame, expectedVersion int64) (int64, error) {
	newVersion, err := c.inner.SaveWithVersion(ctx, game, expectedVersion)
	c.cache.Remove(game.ID)
	return newVersion, err
}

// BulkUpdate saves all aggregates and invalidates their entries
func (c *CachedGame) BulkUpdate(ctx context.Context, games []*domain.PredictionGame) error {
	if err := c.inner.BulkUpdate(ctx, games); err != nil {
		return err
	}
	for _, g := range games {
		c.cache.Remove(g.ID)
	}
	return nil
}

// FindByID serves from cache when possible
func (c *CachedGame) FindByID(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	if g, ok := c.cache.Get(id); ok {
		return g.Clone(), nil
	}
	g, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, g.Clone())
	return g, nil
}

// FindByIDs fills misses from the store
func (c *CachedGame) FindByIDs(ctx context.Context, ids []domain.GameID) ([]*domain.PredictionGame, error) {
	return c.inner.FindByIDs(ctx, ids)
}

func (c *CachedGame) FindByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return c.inner.FindByStatus(ctx, status, page)
}

func (c *CachedGame) FindByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return c.inner.FindByCreator(ctx, creatorID, page)
}

func (c *CachedGame) FindByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return c.inner.FindByParticipant(ctx, userID, page)
}

func (c *CachedGame) Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return c.inner.Search(ctx, filter, page)
}

func (c *CachedGame) FindActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return c.inner.FindActive(ctx, page)
}

func (c *CachedGame) FindPendingSettlement(ctx context.Context, limit int) ([]*domain.PredictionGame, error) {
	return c.inner.FindPendingSettlement(ctx, limit)
}

func (c *CachedGame) Exists(ctx context.Context, id domain.GameID) (bool, error) {
	if c.cache.Contains(id) {
		return true, nil
	}
	return c.inner.Exists(ctx, id)
}

// Delete soft-deletes and invalidates
func (c *CachedGame) Delete(ctx context.Context, id domain.GameID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.cache.Remove(id)
	return nil
}

func (c *CachedGame) GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error) {
	if g, ok := c.cache.Get(id); ok {
		stats := g.Statistics()
		return &stats, nil
	}
	return c.inner.GetStatistics(ctx, id)
}
