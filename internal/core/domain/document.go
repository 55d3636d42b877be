package domain

import "time"

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states. A document starts in StatusProcessing and
// moves forward to exactly one terminal state. Re-ingestion re-enters
// StatusProcessing explicitly; terminal states are never silently
// overwritten.
const (
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Valid reports whether s is a known lifecycle state.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s DocumentStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. Terminal states only accept themselves; re-entry into
// processing is an explicit restart handled outside this check.
func (s DocumentStatus) CanTransition(next DocumentStatus) bool {
	if !next.Valid() {
		return false
	}
	if s.Terminal() {
		return s == next
	}
	return true
}

// Document represents an uploaded document and its processing state.
// It is created at upload time and mutated only by the ingestion worker.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// UserID identifies the owning user. Chunks are only ever queried
	// through this scope.
	UserID string

	// Filename is the original name of the uploaded file.
	Filename string

	// StoragePath locates the raw bytes (a local path in this build;
	// opaque to the core).
	StoragePath string

	// Status is the current lifecycle state.
	Status DocumentStatus

	// UploadedAt is when the document was registered.
	UploadedAt time.Time

	// ReadyAt is set when ingestion completes successfully.
	ReadyAt *time.Time

	// NumChunks is set when ingestion completes successfully.
	NumChunks *int

	// ErrorMessage holds the (truncated) failure reason when Status is
	// StatusFailed.
	ErrorMessage *string
}

// Chunk is one embedded slice of a document's extracted text.
// The chunk set for a document is written once, atomically, by a single
// ingestion attempt.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// UserID is denormalised from the owning document for scoped queries.
	UserID string

	// Index is the 0-based ordinal within the document. Ordinals are
	// contiguous with no gaps.
	Index int

	// Content is the chunk's text.
	Content string

	// Embedding is the provider-defined fixed-dimension vector.
	Embedding []float32
}
