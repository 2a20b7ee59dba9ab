package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/predictarena/predictarena/internal/database"
	"github.com/predictarena/predictarena/internal/domain"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()

	if !testing.Short() {
		ctx := context.Background()
		terminate = setupDatabase(ctx)
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}

	os.Exit(code)
}

func setupDatabase(ctx context.Context) func() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupDatabase: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		pgContainer.Terminate(ctx)
		return func() {}
	}

	if err := database.RunMigrations(connStr); err != nil {
		fmt.Printf("WARNING: Failed to run migrations: %v\n", err)
		pgContainer.Terminate(ctx)
		return func() {}
	}

	testPool, err = database.NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to create pool: %v\n", err)
		pgContainer.Terminate(ctx)
		return func() {}
	}

	return func() {
		testPool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func requireDB(t *testing.T) *GameRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
	return NewGameRepository(testPool)
}

func integrationConfig(now time.Time) domain.GameConfig {
	return domain.GameConfig{
		Title:          "Integration match",
		PredictionType: domain.PredictionTypeBinary,
		Options: []domain.Option{
			{ID: "A", Label: "Team A"},
			{ID: "B", Label: "Team B"},
		},
		StartTime:      now.Add(-time.Hour),
		EndTime:        now.Add(time.Hour),
		SettlementTime: now.Add(2 * time.Hour),
		MinStake:       1,
		MaxStake:       1000,
	}
}

func newStoredGame(t *testing.T, repo *GameRepository, cfg domain.GameConfig) *domain.PredictionGame {
	t.Helper()
	g, err := domain.NewPredictionGame("creator-1", cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), g))
	return g
}

func TestGameRepository_SaveAndFind(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	g := newStoredGame(t, repo, integrationConfig(time.Now()))

	loaded, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, loaded.ID)
	assert.Equal(t, domain.StatusCreated, loaded.Status)
	assert.Equal(t, int64(1), loaded.Version)
	assert.Equal(t, g.Config.Title, loaded.Config.Title)
	assert.Empty(t, loaded.Predictions)
}

func TestGameRepository_FindByID_NotFound(t *testing.T) {
	repo := requireDB(t)

	_, err := repo.FindByID(context.Background(), domain.NewGameID())
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameRepository_SaveWithVersion(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	t.Run("round-trips predictions and bumps the version", func(t *testing.T) {
		g := newStoredGame(t, repo, integrationConfig(time.Now()))
		require.NoError(t, g.Start())
		_, err := g.AddPrediction("user-1", "A", 50, 0.8, "form guide")
		require.NoError(t, err)

		newVersion, err := repo.SaveWithVersion(ctx, g, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), newVersion)

		loaded, err := repo.FindByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, loaded.Status)
		assert.Equal(t, int64(2), loaded.Version)
		require.Len(t, loaded.Predictions, 1)
		p := loaded.PredictionByUser("user-1")
		require.NotNil(t, p)
		assert.Equal(t, int64(50), p.Stake)
		assert.Equal(t, "form guide", p.Reasoning)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		g := newStoredGame(t, repo, integrationConfig(time.Now()))
		require.NoError(t, g.Start())

		_, err := repo.SaveWithVersion(ctx, g, 99)
		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	})

	t.Run("reports a missing game as not found", func(t *testing.T) {
		g, err := domain.NewPredictionGame("creator-1", integrationConfig(time.Now()))
		require.NoError(t, err)

		_, err = repo.SaveWithVersion(ctx, g, 1)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("concurrent writers collide on the same version", func(t *testing.T) {
		g := newStoredGame(t, repo, integrationConfig(time.Now()))

		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				clone := g.Clone()
				_ = clone.Start()
				_, err := repo.SaveWithVersion(ctx, clone, 1)
				results <- err
			}()
		}

		var conflicts, successes int
		for i := 0; i < 2; i++ {
			if err := <-results; err != nil {
				assert.ErrorIs(t, err, domain.ErrConcurrentModification)
				conflicts++
			} else {
				successes++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)
	})
}

func TestGameRepository_SoftDelete(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	g := newStoredGame(t, repo, integrationConfig(time.Now()))

	exists, err := repo.Exists(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, g.ID))

	exists, err = repo.Exists(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByID(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	// Deleting again reports not found
	err = repo.Delete(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameRepository_Listings(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	creator := domain.UserID("lister-" + domain.NewGameID().String())
	var active *domain.PredictionGame
	for i := 0; i < 3; i++ {
		g, err := domain.NewPredictionGame(creator, integrationConfig(time.Now()))
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, g.Start())
			active = g
		}
		require.NoError(t, repo.Save(ctx, g))
	}
	_, err := active.AddPrediction("participant-1", "A", 10, 0.5, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, active))

	t.Run("FindByCreator pages through results", func(t *testing.T) {
		page1, err := repo.FindByCreator(ctx, creator, domain.PageRequest{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page1.TotalCount)
		assert.Len(t, page1.Items, 2)
		assert.True(t, page1.HasNext)
		assert.False(t, page1.HasPrev)

		page2, err := repo.FindByCreator(ctx, creator, domain.PageRequest{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page2.Items, 1)
		assert.False(t, page2.HasNext)
		assert.True(t, page2.HasPrev)
	})

	t.Run("FindActive returns only games accepting predictions", func(t *testing.T) {
		res, err := repo.FindActive(ctx, domain.PageRequest{Page: 1, Limit: 50})
		require.NoError(t, err)

		var found bool
		for _, g := range res.Items {
			assert.Equal(t, domain.StatusActive, g.Status)
			if g.ID == active.ID {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("FindByParticipant matches through predictions", func(t *testing.T) {
		res, err := repo.FindByParticipant(ctx, "participant-1", domain.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, active.ID, res.Items[0].ID)
	})

	t.Run("Search combines filters", func(t *testing.T) {
		res, err := repo.Search(ctx, domain.GameFilter{
			CreatorID:     creator,
			Statuses:      []domain.GameStatus{domain.StatusActive},
			TitleContains: "integration",
		}, domain.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, active.ID, res.Items[0].ID)
	})
}

func TestGameRepository_FindPendingSettlement(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	now := time.Now()
	cfg := integrationConfig(now)
	cfg.Title = "Pending settlement"
	cfg.StartTime = now.Add(-3 * time.Hour)
	cfg.EndTime = now.Add(-2 * time.Hour)
	cfg.SettlementTime = now.Add(-time.Hour)

	g, err := domain.NewPredictionGame("creator-settle", cfg)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	require.NoError(t, g.EndPredictionPeriod())
	require.NoError(t, repo.Save(ctx, g))

	pending, err := repo.FindPendingSettlement(ctx, 100)
	require.NoError(t, err)

	var found bool
	for _, p := range pending {
		assert.Equal(t, domain.StatusEnded, p.Status)
		if p.ID == g.ID {
			found = true
		}
	}
	assert.True(t, found, "ended game past its settlement time should be pending")
}

func TestGameRepository_GetStatistics(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	g, err := domain.NewPredictionGame("creator-stats", integrationConfig(time.Now()))
	require.NoError(t, err)
	require.NoError(t, g.Start())
	_, err = g.AddPrediction("stats-user-1", "A", 10, 0.9, "")
	require.NoError(t, err)
	_, err = g.AddPrediction("stats-user-2", "B", 30, 0.5, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, g))

	stats, err := repo.GetStatistics(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalParticipants)
	assert.Equal(t, int64(40), stats.TotalStake)
	assert.InDelta(t, 0.7, stats.AverageConfidence, 1e-9)
	assert.Equal(t, 1, stats.OptionDistribution["A"])
	assert.Equal(t, 1, stats.OptionDistribution["B"])
}

func TestGameRepository_BulkUpdate(t *testing.T) {
	repo := requireDB(t)
	ctx := context.Background()

	g1, err := domain.NewPredictionGame("creator-bulk", integrationConfig(time.Now()))
	require.NoError(t, err)
	g2, err := domain.NewPredictionGame("creator-bulk", integrationConfig(time.Now()))
	require.NoError(t, err)
	require.NoError(t, g1.Start())

	require.NoError(t, repo.BulkUpdate(ctx, []*domain.PredictionGame{g1, g2}))

	loaded, err := repo.FindByIDs(ctx, []domain.GameID{g1.ID, g2.ID})
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}
