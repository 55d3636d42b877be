package driven

import (
	"context"
	"time"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

// StatusUpdate carries the optional fields that accompany a document
// status transition. Nil fields are left untouched.
type StatusUpdate struct {
	// ReadyAt is set on successful ingestion.
	ReadyAt *time.Time

	// NumChunks is set on successful ingestion.
	NumChunks *int

	// ErrorMessage is set on failed ingestion, already truncated by the
	// caller.
	ErrorMessage *string
}

// DocumentStore persists documents and their chunks.
// Backed by SQLite in this build; an in-memory implementation exists
// for tests.
//
// Scoping contract: chunk reads only return chunks whose owning
// document belongs to the requesting user. Cross-user leakage is a
// correctness violation.
type DocumentStore interface {
	// InsertDocument stores a newly uploaded document.
	InsertDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID regardless of owner.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentForUser retrieves a document only if it belongs to the
	// given user. Returns domain.ErrNotFound otherwise.
	GetDocumentForUser(ctx context.Context, id, userID string) (*domain.Document, error)

	// ListDocuments returns a user's documents, newest upload first.
	ListDocuments(ctx context.Context, userID string) ([]domain.Document, error)

	// UpdateStatus transitions a document's lifecycle state. It rejects
	// transitions out of a terminal state with
	// domain.ErrInvalidTransition; restarting ingestion goes through
	// ResetDocument instead.
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, update StatusUpdate) error

	// ResetDocument explicitly re-enters processing for a new ingestion
	// attempt: status becomes processing, the terminal fields are
	// cleared, and the previous chunk set is deleted, all atomically.
	ResetDocument(ctx context.Context, id string) error

	// InsertChunks stores a document's chunk set atomically: either
	// every chunk is durably written or none are. Ordinal indices are
	// taken from the chunks themselves.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// ChunksForDocument returns the chunks of one document, provided it
	// belongs to the given user.
	ChunksForDocument(ctx context.Context, documentID, userID string) ([]domain.Chunk, error)

	// ChunksForUser returns all chunks across a user's documents.
	ChunksForUser(ctx context.Context, userID string) ([]domain.Chunk, error)
}
