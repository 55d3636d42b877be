// Package chunker splits extracted document text into overlapping
// fixed-size segments for embedding.
package chunker

import "strings"

// DefaultMaxChars is the default maximum chunk size in characters.
const DefaultMaxChars = 3000

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

// newlineWindow bounds how far back from a computed chunk end a newline
// is accepted as the break point.
const newlineWindow = 200

// Chunker splits text into overlapping segments, preferring to break at
// a line boundary near the chunk end. Splitting is deterministic: the
// same input and parameters always yield the same segments, which keeps
// re-ingestion idempotent.
type Chunker struct {
	maxChars int
	overlap  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the maximum chunk size in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below the chunk size or chunks could never
	// advance; clamp rather than error.
	if c.overlap >= c.maxChars {
		c.overlap = c.maxChars / 4
	}

	return c
}

// MaxChars returns the configured maximum chunk size.
func (c *Chunker) MaxChars() int { return c.maxChars }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split divides text into ordered, non-empty, trimmed segments covering
// the whole input. Each segment starts overlap characters before the
// previous segment's end, clamped so the start strictly increases every
// iteration; termination is therefore guaranteed for any input.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	n := len(text)
	chunks := make([]string, 0, n/(c.maxChars-c.overlap)+1)

	start := 0
	for start < n {
		end := start + c.maxChars
		if end > n {
			end = n
		}

		// Prefer a newline break, but only inside the trailing window.
		if end < n {
			if nl := strings.LastIndexByte(text[:end], '\n'); nl > start && nl > end-newlineWindow {
				end = nl
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == n {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Forward progress regardless of overlap and break
			// position: never revisit the same start.
			next = start + 1
		}
		start = next
	}

	return chunks
}
