// Package plaintext reads text-based artifacts verbatim.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads a file's bytes as UTF-8 text.
type Extractor struct{}

// New creates a plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the file content as-is.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

// Extensions returns the text-based extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md", ".markdown", ".csv", ".log"}
}
