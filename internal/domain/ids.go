package domain

import "github.com/google/uuid"

// Opaque string-backed identifiers. Generated once, never reused.
type (
	// GameID identifies a prediction game
	GameID string
	// UserID identifies a participant
	UserID string
	// PredictionID identifies a single prediction within a game
	PredictionID string
)

// NewGameID generates a fresh game identifier
func NewGameID() GameID {
	return GameID(uuid.NewString())
}

// NewPredictionID generates a fresh prediction identifier
func NewPredictionID() PredictionID {
	return PredictionID(uuid.NewString())
}

func (id GameID) String() string       { return string(id) }
func (id UserID) String() string       { return string(id) }
func (id PredictionID) String() string { return string(id) }
