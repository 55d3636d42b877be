package driven

import (
	"context"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

// JobQueue is the reliable-delivery transport feeding the ingestion
// worker. Delivery is at-least-once: a job that is dequeued but never
// acked is redelivered, up to the queue's configured attempt ceiling,
// after which it is abandoned.
type JobQueue interface {
	// Enqueue adds an ingestion job for the given document.
	Enqueue(ctx context.Context, documentID string) (*domain.IngestionJob, error)

	// Dequeue blocks until a job is available or ctx is cancelled.
	// The returned job's Attempts includes the current delivery.
	Dequeue(ctx context.Context) (*domain.IngestionJob, error)

	// Ack marks a job as completed; it will not be redelivered.
	Ack(ctx context.Context, job *domain.IngestionJob) error

	// Nack records a failed delivery. The job is redelivered unless its
	// attempt ceiling is reached, in which case it is abandoned with
	// the given reason.
	Nack(ctx context.Context, job *domain.IngestionJob, reason string) error
}
