package driving

import (
	"context"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

// Ingestor drives the document ingestion pipeline.
type Ingestor interface {
	// Upload registers a document in the processing state and enqueues
	// an ingestion job for it.
	Upload(ctx context.Context, userID, filename, storagePath string) (*domain.Document, error)

	// Reingest explicitly restarts ingestion for a document that is in
	// a terminal state: the document re-enters processing, its previous
	// chunk set is removed and a fresh job is enqueued. A document that
	// is still processing is rejected with domain.ErrIngestionInProgress.
	Reingest(ctx context.Context, documentID string) error

	// Process runs one ingestion attempt for a dequeued job end to end:
	// fetch document, extract text, chunk, embed, persist chunks, mark
	// ready. On any failure the document is marked failed before the
	// error is returned, so the document never remains in processing
	// after Process returns.
	Process(ctx context.Context, job *domain.IngestionJob) error
}
