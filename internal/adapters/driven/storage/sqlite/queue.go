package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

const (
	// defaultMaxAttempts bounds deliveries before a job is parked as dead.
	defaultMaxAttempts = 3

	// defaultPollInterval is how often Dequeue polls for pending jobs.
	defaultPollInterval = 250 * time.Millisecond
)

// jobQueue implements driven.JobQueue on top of the SQLite store. Jobs
// survive restarts; a job interrupted mid-run is visible as 'running'
// and can be recovered with Store.RequeueStuckJobs.
type jobQueue struct {
	store        *Store
	maxAttempts  int
	pollInterval time.Duration
}

var _ driven.JobQueue = (*jobQueue)(nil)

func newJobQueue(store *Store) *jobQueue {
	return &jobQueue{
		store:        store,
		maxAttempts:  defaultMaxAttempts,
		pollInterval: defaultPollInterval,
	}
}

// Enqueue adds a pending ingestion job for the given document.
func (q *jobQueue) Enqueue(ctx context.Context, documentID string) (*domain.IngestionJob, error) {
	job := domain.IngestionJob{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		EnqueuedAt: time.Now().UTC(),
	}

	_, err := q.store.db.ExecContext(ctx, `
		INSERT INTO ingestion_jobs (id, document_id, status, attempts, enqueued_at)
		VALUES (?, ?, 'pending', 0, ?)
	`, job.ID, job.DocumentID, job.EnqueuedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("enqueuing job: %w", err)
	}

	return &job, nil
}

// Dequeue blocks until a pending job can be claimed or the context is
// cancelled. Claiming marks the job running and counts the delivery.
func (q *jobQueue) Dequeue(ctx context.Context) (*domain.IngestionJob, error) {
	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()

	for {
		job, err := q.claim(ctx)
		if err != nil {
			return nil, err
		}
		if job != nil {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// claim atomically takes the oldest pending job, if any.
func (q *jobQueue) claim(ctx context.Context) (*domain.IngestionJob, error) {
	tx, err := q.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		job        domain.IngestionJob
		enqueuedAt string
	)
	row := tx.QueryRowContext(ctx, `
		SELECT id, document_id, attempts, enqueued_at
		FROM ingestion_jobs
		WHERE status = 'pending'
		ORDER BY enqueued_at, id
		LIMIT 1
	`)
	err = row.Scan(&job.ID, &job.DocumentID, &job.Attempts, &enqueuedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting pending job: %w", err)
	}

	job.Attempts++
	job.EnqueuedAt, err = time.Parse(time.RFC3339, enqueuedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing enqueued_at: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE ingestion_jobs SET status = 'running', attempts = ? WHERE id = ?
	`, job.Attempts, job.ID)
	if err != nil {
		return nil, fmt.Errorf("claiming job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &job, nil
}

// Ack removes a successfully completed job.
func (q *jobQueue) Ack(ctx context.Context, job *domain.IngestionJob) error {
	if job == nil {
		return domain.ErrInvalidInput
	}
	_, err := q.store.db.ExecContext(ctx, "DELETE FROM ingestion_jobs WHERE id = ?", job.ID)
	if err != nil {
		return fmt.Errorf("acking job: %w", err)
	}
	return nil
}

// Nack returns a failed job to the queue, or parks it as dead once its
// attempts are exhausted.
func (q *jobQueue) Nack(ctx context.Context, job *domain.IngestionJob, reason string) error {
	if job == nil {
		return domain.ErrInvalidInput
	}

	status := "pending"
	if job.Attempts >= q.maxAttempts {
		status = "dead"
	}

	_, err := q.store.db.ExecContext(ctx, `
		UPDATE ingestion_jobs SET status = ?, last_error = ? WHERE id = ?
	`, status, reason, job.ID)
	if err != nil {
		return fmt.Errorf("nacking job: %w", err)
	}
	return nil
}

// RequeueStuckJobs returns jobs left in 'running' by a crashed worker
// to 'pending'. Call once at worker startup, before Dequeue.
func (s *Store) RequeueStuckJobs(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ingestion_jobs SET status = 'pending' WHERE status = 'running'
	`)
	if err != nil {
		return 0, fmt.Errorf("requeuing stuck jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting requeued jobs: %w", err)
	}
	return int(n), nil
}
