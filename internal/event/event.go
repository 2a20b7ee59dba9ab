package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/predictarena/predictarena/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types emitted by the prediction game service. The aggregate itself
// never publishes; the application layer turns the facts returned by the
// aggregate into these events.
const (
	GameCreated      Type = "game.created"
	GameStarted      Type = "game.started"
	PredictionPlaced Type = "prediction.placed"
	GameEnded        Type = "game.ended"
	GameSettled      Type = "game.settled"
	GameCancelled    Type = "game.cancelled"
)

// Event represents a versioned event in the system
type Event struct {
	Version  string                 `json:"version"` // Event schema version (e.g. "1.0")
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Typed event payloads

// GameCreatedPayloadV1 is the typed payload for game creation events
type GameCreatedPayloadV1 struct {
	GameID         string    `json:"game_id"`
	CreatorID      string    `json:"creator_id"`
	Title          string    `json:"title"`
	PredictionType string    `json:"prediction_type"`
	OptionCount    int       `json:"option_count"`
	EndTime        time.Time `json:"end_time"`
	SettlementTime time.Time `json:"settlement_time"`
	Timestamp      int64     `json:"timestamp"`
}

// GameStatusPayloadV1 is the typed payload for plain lifecycle transitions
// (started, ended, cancelled)
type GameStatusPayloadV1 struct {
	GameID    string `json:"game_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// PredictionPlacedPayloadV1 is the typed payload for participation events
type PredictionPlacedPayloadV1 struct {
	GameID       string  `json:"game_id"`
	PredictionID string  `json:"prediction_id"`
	UserID       string  `json:"user_id"`
	OptionID     string  `json:"option_id"`
	Stake        int64   `json:"stake"`
	Confidence   float64 `json:"confidence"`
	Participants int     `json:"participants"`
	TotalPool    int64   `json:"total_pool"`
	Timestamp    int64   `json:"timestamp"`
}

// GameSettledPayloadV1 is the typed payload for settlement events
type GameSettledPayloadV1 struct {
	GameID          string `json:"game_id"`
	CorrectOptionID string `json:"correct_option_id"`
	TotalPool       int64  `json:"total_pool"`
	TotalPaid       int64  `json:"total_paid"`
	WinnerCount     int    `json:"winner_count"`
	LoserCount      int    `json:"loser_count"`
	Timestamp       int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewGameCreatedEvent creates a game creation event from the aggregate
func NewGameCreatedEvent(g *domain.PredictionGame) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GameCreated,
		Payload: GameCreatedPayloadV1{
			GameID:         g.ID.String(),
			CreatorID:      g.CreatorID.String(),
			Title:          g.Config.Title,
			PredictionType: string(g.Config.PredictionType),
			OptionCount:    len(g.Config.Options),
			EndTime:        g.Config.EndTime,
			SettlementTime: g.Config.SettlementTime,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewGameStatusEvent creates a lifecycle transition event
func NewGameStatusEvent(t Type, gameID domain.GameID, status domain.GameStatus) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: GameStatusPayloadV1{
			GameID:    gameID.String(),
			Status:    string(status),
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewPredictionPlacedEvent creates a participation event
func NewPredictionPlacedEvent(g *domain.PredictionGame, p *domain.Prediction) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PredictionPlaced,
		Payload: PredictionPlacedPayloadV1{
			GameID:       g.ID.String(),
			PredictionID: p.ID.String(),
			UserID:       p.UserID.String(),
			OptionID:     p.SelectedOptionID,
			Stake:        p.Stake,
			Confidence:   p.Confidence,
			Participants: len(g.Predictions),
			TotalPool:    g.TotalPool(),
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewGameSettledEvent creates a settlement event from the outcome fact
func NewGameSettledEvent(outcome *domain.SettlementOutcome) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GameSettled,
		Payload: GameSettledPayloadV1{
			GameID:          outcome.GameID.String(),
			CorrectOptionID: outcome.CorrectOptionID,
			TotalPool:       outcome.TotalPool,
			TotalPaid:       outcome.TotalPaid,
			WinnerCount:     outcome.WinnerCount,
			LoserCount:      outcome.LoserCount,
			Timestamp:       time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the event Bus. Handlers run
// synchronously in subscription order; a failing handler does not stop the
// others.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
