package event

import (
	"context"
	"sync"
	"time"

	"github.com/predictarena/predictarena/internal/logger"
	"github.com/predictarena/predictarena/internal/metrics"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter *DeadLetterWriter // optional; exhausted events are dropped when nil
}

// ResilientPublisher wraps a Bus with background retries and a dead-letter
// queue. Publish never blocks the caller on a failing subscriber: the first
// failure hands the event to a detached retry loop.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
	wg     sync.WaitGroup
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	if config.MaxRetries <= 0 {
		config.MaxRetries = RetryMaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = RetryInitialDelay
	}
	return &ResilientPublisher{inner: inner, config: config}
}

// Publish attempts to publish an event, falling back to async retries.
// It returns nil once the event is accepted for processing, even if the
// first attempt failed; callers are decoupled from the retry mechanism.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"max_retries", p.config.MaxRetries)

	p.wg.Add(1)
	go p.retryLoop(event, err)

	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(event Event, firstErr error) {
	defer p.wg.Done()

	// Detached context: the originating request may be long gone
	ctx := context.Background()
	lastErr := firstErr

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, attempt))

		err := p.inner.Publish(ctx, event)
		if err == nil {
			metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()
			logger.FromContext(ctx).Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", attempt)
			return
		}
		lastErr = err
	}

	metrics.EventsDeadLettered.WithLabelValues(string(event.Type)).Inc()
	logger.FromContext(ctx).Error(LogMsgEventRetryExhausted,
		"event_type", event.Type,
		"error", lastErr)

	if p.config.DeadLetter != nil {
		if err := p.config.DeadLetter.Write(event, p.config.MaxRetries, lastErr); err != nil {
			logger.FromContext(ctx).Error(LogMsgDeadLetterFailed, "error", err)
		}
	}
}

// Shutdown waits for all in-flight retry loops to finish or the context to
// expire.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
