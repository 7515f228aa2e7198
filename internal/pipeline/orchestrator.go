package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/stats"
)

// ErrQueueFull is returned by Submit when the job queue has no room.
var ErrQueueFull = errors.New("job queue is full")

// Orchestrator manages the outline worker pool.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	engine  *outline.Engine
	latency *stats.Latency
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		engine:  outline.New(cfg.Engine, log),
		latency: stats.NewLatency(time.Hour),
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := o.newWorker()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// RunOnce processes a document synchronously under the same deadline as
// queued jobs.
func (o *Orchestrator) RunOnce(ctx context.Context, filename string, data []byte) (Analysis, error) {
	return o.newWorker().Run(ctx, filename, data)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Workers returns the configured worker count.
func (o *Orchestrator) Workers() int {
	return o.cfg.WorkerCount
}

// Latency returns inference latency over the last hour.
func (o *Orchestrator) Latency() stats.Snapshot {
	return o.latency.Snapshot()
}

// JobCount returns the number of jobs held for polling.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// EngineOptions returns the thresholds the workers infer with.
func (o *Orchestrator) EngineOptions() outline.Options {
	return o.engine.Options()
}

func (o *Orchestrator) newWorker() *Worker {
	return NewWorker(o.engine, o.latency, o.log, o.cfg.DocumentTimeout)
}
