package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictarena/predictarena/internal/domain"
	"github.com/predictarena/predictarena/internal/repository"
)

// GameRepository implements the game repository for PostgreSQL
type GameRepository struct {
	db *pgxpool.Pool
}

// Interface conformance check
var _ repository.Game = (*GameRepository)(nil)

// NewGameRepository creates a new GameRepository
func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// querier covers both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const gameColumns = "g.id, g.creator_id, g.status, g.config, g.created_at, g.updated_at, g.version"

// Save inserts a new aggregate or overwrites an existing one unconditionally
func (r *GameRepository) Save(ctx context.Context, game *domain.PredictionGame) error {
	if game.Version == 0 {
		game.Version = 1
	}
	row, err := newGameRow(game)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO games (id, creator_id, status, config, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			config = EXCLUDED.config,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version`,
		row.ID, row.CreatorID, row.Status, row.Config, row.CreatedAt, row.UpdatedAt, row.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToInsertGame, err)
	}

	if err := syncPredictions(ctx, tx, game); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// SaveWithVersion performs an atomic compare-and-swap on the stored version
func (r *GameRepository) SaveWithVersion(ctx context.Context, game *domain.PredictionGame, expectedVersion int64) (int64, error) {
	row, err := newGameRow(game)
	if err != nil {
		return 0, err
	}
	newVersion := expectedVersion + 1

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE games
		SET status = $1, config = $2, updated_at = $3, version = $4
		WHERE id = $5 AND version = $6 AND deleted_at IS NULL`,
		row.Status, row.Config, row.UpdatedAt, newVersion, row.ID, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToUpdateGame, err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM games WHERE id = $1 AND deleted_at IS NULL)`,
			row.ID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("%s: %w", ErrContextFailedToCheckGame, err)
		}
		if !exists {
			return 0, fmt.Errorf("%w: %s", domain.ErrGameNotFound, game.ID)
		}
		return 0, fmt.Errorf("%w: game %s at version %d", domain.ErrConcurrentModification, game.ID, expectedVersion)
	}

	if err := syncPredictions(ctx, tx, game); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return newVersion, nil
}

// BulkUpdate saves several aggregates in one transaction
func (r *GameRepository) BulkUpdate(ctx context.Context, games []*domain.PredictionGame) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer tx.Rollback(ctx)

	for _, game := range games {
		if game.Version == 0 {
			game.Version = 1
		}
		row, err := newGameRow(game)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO games (id, creator_id, status, config, created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				config = EXCLUDED.config,
				updated_at = EXCLUDED.updated_at,
				version = EXCLUDED.version`,
			row.ID, row.CreatorID, row.Status, row.Config, row.CreatedAt, row.UpdatedAt, row.Version)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToInsertGame, err)
		}
		if err := syncPredictions(ctx, tx, game); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// FindByID loads one aggregate including its predictions
func (r *GameRepository) FindByID(ctx context.Context, id domain.GameID) (*domain.PredictionGame, error) {
	var row gameRow
	err := r.db.QueryRow(ctx,
		"SELECT "+gameColumns+" FROM games g WHERE g.id = $1 AND g.deleted_at IS NULL",
		id.String()).
		Scan(&row.ID, &row.CreatorID, &row.Status, &row.Config, &row.CreatedAt, &row.UpdatedAt, &row.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToQueryGames, err)
	}

	game, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	if err := r.attachPredictions(ctx, []*domain.PredictionGame{game}); err != nil {
		return nil, err
	}
	return game, nil
}

// FindByIDs loads several aggregates; unknown IDs are silently skipped
func (r *GameRepository) FindByIDs(ctx context.Context, ids []domain.GameID) ([]*domain.PredictionGame, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	rows, err := r.db.Query(ctx,
		"SELECT "+gameColumns+" FROM games g WHERE g.id = ANY($1) AND g.deleted_at IS NULL",
		idStrs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToQueryGames, err)
	}
	games, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachPredictions(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// FindByStatus lists games in a lifecycle state
func (r *GameRepository) FindByStatus(ctx context.Context, status domain.GameStatus, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return r.pageQuery(ctx, "g.deleted_at IS NULL AND g.status = $1", []any{string(status)}, page)
}

// FindByCreator lists games created by a user
func (r *GameRepository) FindByCreator(ctx context.Context, creatorID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	return r.pageQuery(ctx, "g.deleted_at IS NULL AND g.creator_id = $1", []any{creatorID.String()}, page)
}

// FindByParticipant lists games a user has predicted in
func (r *GameRepository) FindByParticipant(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	where := "g.deleted_at IS NULL AND EXISTS (SELECT 1 FROM predictions p WHERE p.game_id = g.id AND p.user_id = $1)"
	return r.pageQuery(ctx, where, []any{userID.String()}, page)
}

// Search lists games matching the filter
func (r *GameRepository) Search(ctx context.Context, filter domain.GameFilter, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	conditions := []string{"g.deleted_at IS NULL"}
	var args []any

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("g.status = ANY($%d)", len(args)))
	}
	if filter.CreatorID != "" {
		args = append(args, filter.CreatorID.String())
		conditions = append(conditions, fmt.Sprintf("g.creator_id = $%d", len(args)))
	}
	if filter.PredictionType != "" {
		args = append(args, string(filter.PredictionType))
		conditions = append(conditions, fmt.Sprintf("g.config->>'prediction_type' = $%d", len(args)))
	}
	if filter.TitleContains != "" {
		args = append(args, filter.TitleContains)
		conditions = append(conditions, fmt.Sprintf("g.config->>'title' ILIKE '%%' || $%d || '%%'", len(args)))
	}

	return r.pageQuery(ctx, strings.Join(conditions, " AND "), args, page)
}

// FindActive lists games currently accepting predictions
func (r *GameRepository) FindActive(ctx context.Context, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	where := "g.deleted_at IS NULL AND g.status = $1 AND (g.config->>'end_time')::timestamptz > NOW()"
	return r.pageQuery(ctx, where, []any{string(domain.StatusActive)}, page)
}

// FindPendingSettlement lists ended games whose settlement time has passed,
// oldest settlement first
func (r *GameRepository) FindPendingSettlement(ctx context.Context, limit int) ([]*domain.PredictionGame, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+`
		FROM games g
		WHERE g.deleted_at IS NULL
		  AND g.status = $1
		  AND (g.config->>'settlement_time')::timestamptz <= NOW()
		ORDER BY (g.config->>'settlement_time')::timestamptz ASC
		LIMIT $2`,
		string(domain.StatusEnded), limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToQueryGames, err)
	}
	games, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachPredictions(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// Exists reports whether a live row exists for the ID
func (r *GameRepository) Exists(ctx context.Context, id domain.GameID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM games WHERE id = $1 AND deleted_at IS NULL)`,
		id.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrContextFailedToCheckGame, err)
	}
	return exists, nil
}

// Delete soft-deletes the aggregate
func (r *GameRepository) Delete(ctx context.Context, id domain.GameID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE games SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id.String())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToDeleteGame, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
	}
	return nil
}

// GetStatistics loads the aggregate and summarizes its participation
func (r *GameRepository) GetStatistics(ctx context.Context, id domain.GameID) (*domain.GameStatistics, error) {
	game, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats := game.Statistics()
	return &stats, nil
}

// pageQuery runs the shared count + page listing for a WHERE clause. The
// args placeholders must be numbered $1..$n; LIMIT and OFFSET are appended.
func (r *GameRepository) pageQuery(ctx context.Context, where string, args []any, page domain.PageRequest) (domain.PageResult[*domain.PredictionGame], error) {
	var empty domain.PageResult[*domain.PredictionGame]
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM games g WHERE "+where, args...).Scan(&total); err != nil {
		return empty, fmt.Errorf("%s: %w", ErrContextFailedToCountGames, err)
	}

	sortExpr, ok := sortColumns[page.SortBy]
	if !ok {
		sortExpr = sortColumns[DefaultSortColumn]
	}
	direction := "DESC"
	if page.SortOrder == domain.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM games g WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		gameColumns, where, sortExpr, direction, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return empty, fmt.Errorf("%s: %w", ErrContextFailedToQueryGames, err)
	}
	games, err := scanGames(rows)
	if err != nil {
		return empty, err
	}
	if err := r.attachPredictions(ctx, games); err != nil {
		return empty, err
	}

	return domain.NewPageResult(games, total, page), nil
}

func scanGames(rows pgx.Rows) ([]*domain.PredictionGame, error) {
	defer rows.Close()

	var games []*domain.PredictionGame
	for rows.Next() {
		var row gameRow
		if err := rows.Scan(&row.ID, &row.CreatorID, &row.Status, &row.Config, &row.CreatedAt, &row.UpdatedAt, &row.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToScanGame, err)
		}
		game, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToQueryGames, err)
	}
	return games, nil
}

// attachPredictions loads the predictions of the given games in one query
func (r *GameRepository) attachPredictions(ctx context.Context, games []*domain.PredictionGame) error {
	if len(games) == 0 {
		return nil
	}

	byID := make(map[string]*domain.PredictionGame, len(games))
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID.String()
		byID[g.ID.String()] = g
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, user_id, selected_option_id, stake, confidence, reasoning, placed_at, result
		FROM predictions
		WHERE game_id = ANY($1)`,
		ids)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToQueryPreds, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row predictionRow
		if err := rows.Scan(&row.ID, &row.GameID, &row.UserID, &row.SelectedOptionID, &row.Stake, &row.Confidence, &row.Reasoning, &row.PlacedAt, &row.Result); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToScanGame, err)
		}
		p, err := row.toDomain()
		if err != nil {
			return err
		}
		if game, ok := byID[row.GameID]; ok {
			game.Predictions[p.ID] = p
		}
	}
	return rows.Err()
}

// syncPredictions replaces the stored predictions with the aggregate's
// current set. The aggregate never removes predictions, so the delete only
// clears superseded row versions.
func syncPredictions(ctx context.Context, q querier, game *domain.PredictionGame) error {
	if _, err := q.Exec(ctx, `DELETE FROM predictions WHERE game_id = $1`, game.ID.String()); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToSyncPreds, err)
	}

	for _, p := range game.Predictions {
		row, err := newPredictionRow(p)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, `
			INSERT INTO predictions (id, game_id, user_id, selected_option_id, stake, confidence, reasoning, placed_at, result)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			row.ID, row.GameID, row.UserID, row.SelectedOptionID, row.Stake, row.Confidence, row.Reasoning, row.PlacedAt, row.Result)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToSyncPreds, err)
		}
	}
	return nil
}
