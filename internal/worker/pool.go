package worker

import (
	"context"
	"sync"
	"time"

	"github.com/predictarena/predictarena/internal/logger"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Process(ctx context.Context) error
}

// Pool runs jobs on a fixed set of goroutines. Each job gets its own
// timeout-bounded context so one stuck job cannot stall a worker forever.
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobQueue   chan Job
	wg         sync.WaitGroup
	quit       chan struct{}
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers int, queueSize int) *Pool {
	return &Pool{
		workers:    workers,
		jobTimeout: DefaultJobTimeout,
		jobQueue:   make(chan Job, queueSize),
		quit:       make(chan struct{}),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.process(job)
		case <-p.quit:
			// Drain jobs that were queued before the stop signal.
			for {
				select {
				case job := <-p.jobQueue:
					p.process(job)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue adds a job to the queue. It blocks while the queue is full and
// silently drops the job once the pool is stopping.
func (p *Pool) Enqueue(job Job) {
	select {
	case p.jobQueue <- job:
	case <-p.quit:
	}
}

// Stop signals the workers, drains the queue, and waits for in-flight jobs.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
