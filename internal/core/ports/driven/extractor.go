package driven

import "context"

// Extractor turns a stored document artifact into plain text.
// Implementations are selected by file extension; the registry in
// internal/extractors performs the selection.
type Extractor interface {
	// Extract reads the artifact at path and returns its text content.
	Extract(ctx context.Context, path string) (string, error)

	// Extensions returns the lower-case file extensions (including the
	// leading dot) this extractor handles.
	Extensions() []string
}
