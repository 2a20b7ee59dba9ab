package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/predictarena/predictarena/internal/domain"
)

// gameRow mirrors one row of the games table. The configuration travels as
// a JSONB document; predictions live in their own table.
type gameRow struct {
	ID        string
	CreatorID string
	Status    string
	Config    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// predictionRow mirrors one row of the predictions table. Result is nil
// until the game settles.
type predictionRow struct {
	ID               string
	GameID           string
	UserID           string
	SelectedOptionID string
	Stake            int64
	Confidence       float64
	Reasoning        string
	PlacedAt         time.Time
	Result           []byte
}

func newGameRow(g *domain.PredictionGame) (gameRow, error) {
	cfg, err := json.Marshal(g.Config)
	if err != nil {
		return gameRow{}, fmt.Errorf("%s: %w", ErrContextFailedToMarshalJSON, err)
	}
	return gameRow{
		ID:        g.ID.String(),
		CreatorID: g.CreatorID.String(),
		Status:    string(g.Status),
		Config:    cfg,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
		Version:   g.Version,
	}, nil
}

func (r gameRow) toDomain() (*domain.PredictionGame, error) {
	var cfg domain.GameConfig
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToScanGame, err)
	}
	return &domain.PredictionGame{
		ID:          domain.GameID(r.ID),
		CreatorID:   domain.UserID(r.CreatorID),
		Config:      cfg,
		Status:      domain.GameStatus(r.Status),
		Predictions: make(map[domain.PredictionID]*domain.Prediction),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}, nil
}

func newPredictionRow(p *domain.Prediction) (predictionRow, error) {
	row := predictionRow{
		ID:               p.ID.String(),
		GameID:           p.GameID.String(),
		UserID:           p.UserID.String(),
		SelectedOptionID: p.SelectedOptionID,
		Stake:            p.Stake,
		Confidence:       p.Confidence,
		Reasoning:        p.Reasoning,
		PlacedAt:         p.PlacedAt,
	}
	if p.Result != nil {
		result, err := json.Marshal(p.Result)
		if err != nil {
			return predictionRow{}, fmt.Errorf("%s: %w", ErrContextFailedToMarshalJSON, err)
		}
		row.Result = result
	}
	return row, nil
}

func (r predictionRow) toDomain() (*domain.Prediction, error) {
	p := &domain.Prediction{
		ID:               domain.PredictionID(r.ID),
		GameID:           domain.GameID(r.GameID),
		UserID:           domain.UserID(r.UserID),
		SelectedOptionID: r.SelectedOptionID,
		Stake:            r.Stake,
		Confidence:       r.Confidence,
		Reasoning:        r.Reasoning,
		PlacedAt:         r.PlacedAt,
	}
	if len(r.Result) > 0 {
		var result domain.PredictionResult
		if err := json.Unmarshal(r.Result, &result); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToScanGame, err)
		}
		p.Result = &result
	}
	return p, nil
}
