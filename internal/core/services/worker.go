package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driving"
	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

// DefaultWorkerConcurrency is the default number of concurrent job
// processors.
const DefaultWorkerConcurrency = 2

// dequeueRetryDelay is how long a processor waits after a failed
// dequeue before polling again.
const dequeueRetryDelay = 250 * time.Millisecond

// Worker is the queue-driven ingestion consumer: a bounded pool of
// processors pulling jobs and driving them through the Ingestor. Jobs
// are independent; no mutable state is shared across them except what
// is persisted.
type Worker struct {
	queue       driven.JobQueue
	ingestor    driving.Ingestor
	concurrency int

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorker creates a worker pool. A concurrency below 1 falls back to
// the default.
func NewWorker(queue driven.JobQueue, ingestor driving.Ingestor, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = DefaultWorkerConcurrency
	}
	return &Worker{
		queue:       queue,
		ingestor:    ingestor,
		concurrency: concurrency,
	}
}

// Start launches the processor pool and blocks until ctx is cancelled
// or Stop is called.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("ingestion worker started with %d processors", w.concurrency)

	w.wg.Add(w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		go w.processLoop(ctx, i)
	}
	w.wg.Wait()

	logger.Info("ingestion worker stopped")
	return ctx.Err()
}

// Stop shuts the pool down and waits for in-flight jobs to finish. An
// in-flight ingestion attempt is not interrupted mid-way; it completes
// or fails on its own.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

// processLoop pulls and processes jobs until the context ends.
func (w *Worker) processLoop(ctx context.Context, id int) {
	defer w.wg.Done()

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			// Transient store errors must not shut the processor down;
			// back off and poll again.
			logger.Error(err, "processor %d: dequeue failed", id)
			select {
			case <-time.After(dequeueRetryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		if err := w.ingestor.Process(ctx, job); err != nil {
			logger.Warn("processor %d: job %s failed: %v", id, job.ID, err)
			if nackErr := w.queue.Nack(ctx, job, err.Error()); nackErr != nil {
				logger.Error(nackErr, "processor %d: nack failed for job %s", id, job.ID)
			}
			continue
		}

		if err := w.queue.Ack(ctx, job); err != nil {
			logger.Error(err, "processor %d: ack failed for job %s", id, job.ID)
		}
	}
}
