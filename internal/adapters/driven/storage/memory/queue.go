package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

const defaultQueueCapacity = 128

var _ driven.JobQueue = (*JobQueue)(nil)

// JobQueue is a channel-backed in-memory implementation of
// driven.JobQueue. Jobs that fail are requeued until MaxAttempts, then
// parked in the dead list.
type JobQueue struct {
	mu          sync.Mutex
	jobs        chan domain.IngestionJob
	dead        []domain.IngestionJob
	closed      bool
	maxAttempts int
}

// NewJobQueue creates an in-memory job queue. maxAttempts bounds how
// many deliveries a job gets before it is parked; zero means the
// default of 3.
func NewJobQueue(maxAttempts int) *JobQueue {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &JobQueue{
		jobs:        make(chan domain.IngestionJob, defaultQueueCapacity),
		maxAttempts: maxAttempts,
	}
}

// Enqueue adds an ingestion job for the given document.
func (q *JobQueue) Enqueue(ctx context.Context, documentID string) (*domain.IngestionJob, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, domain.ErrQueueClosed
	}
	q.mu.Unlock()

	job := domain.IngestionJob{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		EnqueuedAt: time.Now().UTC(),
	}
	select {
	case q.jobs <- job:
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dequeue blocks until a job is available or the context is cancelled.
// The returned job's Attempts counts this delivery.
func (q *JobQueue) Dequeue(ctx context.Context) (*domain.IngestionJob, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return nil, domain.ErrQueueClosed
		}
		job.Attempts++
		return &job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ack marks a job as successfully completed.
func (q *JobQueue) Ack(_ context.Context, _ *domain.IngestionJob) error {
	return nil
}

// Nack requeues a failed job, or parks it once its attempts are
// exhausted.
func (q *JobQueue) Nack(ctx context.Context, job *domain.IngestionJob, _ string) error {
	if job.Attempts >= q.maxAttempts {
		q.mu.Lock()
		q.dead = append(q.dead, *job)
		q.mu.Unlock()
		return nil
	}

	select {
	case q.jobs <- *job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dead returns jobs that exhausted their delivery attempts.
func (q *JobQueue) Dead() []domain.IngestionJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.IngestionJob, len(q.dead))
	copy(out, q.dead)
	return out
}

// Close stops the queue; pending Dequeue calls drain remaining jobs
// and then receive ErrQueueClosed.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.jobs)
}
