// Package worker provides an asynchronous worker pool that records completed
// analyses: it appends them to the history store and publishes an analysis
// event.
//
// The pool decouples persistence from the request path so a slow database or
// broker never delays a score being returned.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/eventstream"
	"github.com/papercomputeco/aiscore/pkg/history"
)

var (
	defaultNumWorkers   uint = 2
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// Surface is the entry point that produced the result ("cli", "api", "mcp").
	Surface string

	Result *detect.Result

	// StartedAt is when the provider call began.
	StartedAt time.Time
}

// Config is the configuration options for the worker pool.
type Config struct {
	// History is the optional store for analysis records.
	History history.Driver

	// Publisher is the optional event stream publisher.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Pool processes record jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.History == nil && c.Publisher == nil {
		return nil, errors.New("worker pool needs a history driver or a publisher")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: logger,
	}

	for i := range c.NumWorkers {
		wp.wg.Go(func() { wp.worker(i) })
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	if job.Result == nil {
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "provider", job.Result.Provider, "surface", job.Surface)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"provider", job.Result.Provider,
			"surface", job.Surface,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// processJob stores the record and publishes the event. Failures are logged
// and never retried.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()
	took := job.Result.Timestamp.Sub(job.StartedAt)

	if p.config.History != nil {
		rec := history.NewRecord(job.Result, took)
		if err := p.config.History.Put(ctx, rec); err != nil {
			p.logger.Error("storing analysis record failed",
				"provider", job.Result.Provider,
				"error", err,
			)
		} else {
			p.logger.Debug("analysis recorded", "id", rec.ID, "provider", rec.Provider)
		}
	}

	if p.config.Publisher != nil {
		event := eventstream.NewAnalysisCompletedEvent(job.Surface, job.Result, job.StartedAt)
		if err := p.config.Publisher.PublishAnalysis(ctx, event); err != nil {
			p.logger.Warn("publishing analysis event failed",
				"event_id", event.EventID,
				"error", err,
			)
		}
	}
}
