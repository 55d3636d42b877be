package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates an illegal document status change,
	// such as silently moving a terminal document back to processing.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrIngestionInProgress indicates a document is already being
	// ingested and must not be double-enqueued.
	ErrIngestionInProgress = errors.New("ingestion in progress")

	// ErrQueueClosed indicates the job queue has been shut down.
	ErrQueueClosed = errors.New("queue closed")

	// ErrMalformedAnswer indicates the LLM returned output that could
	// not be parsed as a structured answer. This is a hard failure of
	// the chat request, never silently swallowed.
	ErrMalformedAnswer = errors.New("malformed model answer")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
