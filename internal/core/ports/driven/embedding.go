package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Batch contract: EmbedBatch either returns one vector per input text,
// in input order, or an error. There is no partial-success mode at this
// boundary: a partially embedded batch would let callers persist an
// incomplete chunk set, which the write-once chunk invariant forbids.
// When several texts fail, the returned error lists every failure.
//
// Implementations own the provider's rate constraints: bounded
// concurrent in-flight calls, minimum inter-call spacing, and retry
// with exponential backoff for transient failures. Authentication and
// validation failures are not retried.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. All texts
	// succeed or the whole call fails.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768).
	// This is determined by the model.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
