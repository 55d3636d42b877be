package domain

import "time"

// IngestionJob is one unit of work on the ingestion queue. The payload
// is just the document identifier; everything else is bookkeeping the
// queue maintains for its at-least-once delivery.
type IngestionJob struct {
	// ID is the unique job identifier.
	ID string

	// DocumentID is the document to ingest.
	DocumentID string

	// Attempts is how many times this job has been delivered,
	// including the current delivery.
	Attempts int

	// EnqueuedAt is when the job was first enqueued.
	EnqueuedAt time.Time
}
