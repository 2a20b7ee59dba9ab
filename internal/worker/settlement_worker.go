package worker

import (
	"context"
	"time"

	"github.com/predictarena/predictarena/internal/domain"
	"github.com/predictarena/predictarena/internal/event"
	"github.com/predictarena/predictarena/internal/game"
	"github.com/predictarena/predictarena/internal/logger"
	"github.com/predictarena/predictarena/internal/metrics"
	"github.com/predictarena/predictarena/internal/repository"
)

// SettlementWorker closes prediction windows once their end time passes and
// tracks the backlog of ended games awaiting settlement. The winning option
// must be declared by an operator; the worker never settles on its own.
//
// Two mechanisms cooperate: per-game timers scheduled off lifecycle events
// close a window at its exact end time, and a periodic sweep catches games
// missed across restarts.
type SettlementWorker struct {
	BaseWorker
	service   game.Service
	repo      repository.Game
	pool      *Pool
	interval  time.Duration
	batchSize int
	loopDone  chan struct{}
}

// NewSettlementWorker creates a new SettlementWorker
func NewSettlementWorker(service game.Service, repo repository.Game, interval time.Duration, batchSize int) *SettlementWorker {
	w := &SettlementWorker{
		service:   service,
		repo:      repo,
		pool:      NewPool(2, batchSize),
		interval:  interval,
		batchSize: batchSize,
		loopDone:  make(chan struct{}),
	}
	w.init()
	return w
}

// Start runs the sweep loop and the job pool. An initial sweep runs
// immediately to recover state after a restart.
func (w *SettlementWorker) Start() {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info(LogMsgSettlementWorkerStarted, "interval", w.interval, "batchSize", w.batchSize)

	w.pool.Start()

	go func() {
		defer close(w.loopDone)

		w.sweep(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-w.shutdown:
				return
			}
		}
	}()
}

// Subscribe registers the worker for lifecycle events so windows close at
// their exact end time instead of waiting for the next sweep.
func (w *SettlementWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.GameStarted, w.handleGameStarted)
}

func (w *SettlementWorker) handleGameStarted(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(event.GameStatusPayloadV1)
	if !ok {
		return nil
	}

	id := domain.GameID(payload.GameID)
	g, err := w.service.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgFailedToLoadGame, "gameID", id, "error", err)
		return nil
	}

	w.scheduleWindowClose(g)
	return nil
}

// scheduleWindowClose arms a timer that closes the game's prediction window
// at its configured end time. An existing timer for the same game is replaced.
func (w *SettlementWorker) scheduleWindowClose(g *domain.PredictionGame) {
	duration := time.Until(g.Config.EndTime)

	log := logger.FromContext(context.Background())
	log.Info(LogMsgSchedulingWindowClose, "gameID", g.ID, "duration", duration)

	if duration <= 0 {
		w.pool.Enqueue(closeWindowJob{service: w.service, gameID: g.ID})
		return
	}

	w.stopTimer(g.ID)

	id := g.ID
	timer := time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		w.pool.Enqueue(closeWindowJob{service: w.service, gameID: id})
		w.removeTimer(id)
	})
	w.registerTimer(id, timer)
}

// sweep closes any active games whose end time has passed and reports the
// settlement backlog. Errors are logged, never fatal; the next tick retries.
func (w *SettlementWorker) sweep(ctx context.Context) {
	log := logger.FromContext(ctx)

	page := domain.PageRequest{
		Page:      1,
		Limit:     w.batchSize,
		SortBy:    "end_time",
		SortOrder: domain.SortAsc,
	}
	active, err := w.service.ListByStatus(ctx, domain.StatusActive, page)
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
		return
	}

	now := time.Now()
	closed := 0
	for _, g := range active.Items {
		if now.After(g.Config.EndTime) {
			w.pool.Enqueue(closeWindowJob{service: w.service, gameID: g.ID})
			closed++
		}
	}

	pending, err := w.repo.FindPendingSettlement(ctx, w.batchSize)
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
		return
	}
	metrics.SettlementBacklog.Set(float64(len(pending)))

	log.Debug(LogMsgSweepCompleted, "windowsClosed", closed, "settlementBacklog", len(pending))
}

// Shutdown stops the sweep loop, cancels pending timers and drains the pool
func (w *SettlementWorker) Shutdown(ctx context.Context) error {
	err := w.shutdownInternal(ctx, "settlement worker")

	select {
	case <-w.loopDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.pool.Stop()
	return err
}

// closeWindowJob transitions one game from Active to Ended
type closeWindowJob struct {
	service game.Service
	gameID  domain.GameID
}

func (j closeWindowJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClosingPredictionWindow, "gameID", j.gameID)

	if _, err := j.service.ClosePredictions(ctx, j.gameID); err != nil {
		log.Error(LogMsgFailedToCloseWindow, "gameID", j.gameID, "error", err)
		return err
	}
	return nil
}
