package driving

import (
	"context"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

// Searcher provides semantic search to external actors.
type Searcher interface {
	// Search embeds the query and ranks the user's chunks by cosine
	// similarity, returning at most topK results sorted by descending
	// score. documentID narrows the scope to one document when
	// non-empty; otherwise the whole user corpus is searched. An empty
	// candidate set yields an empty result, not an error.
	Search(ctx context.Context, userID, query, documentID string, topK int) ([]domain.SearchResult, error)
}

// Answerer provides retrieval-augmented answers to external actors.
type Answerer interface {
	// Answer runs semantic search and, when grounding is sufficient,
	// asks the LLM for a structured answer whose citations are
	// validated against the retrieved candidates. Insufficient
	// grounding yields the canonical "don't know" response without
	// invoking the LLM.
	Answer(ctx context.Context, userID, query, documentID string, topK int) (*domain.ChatResponse, error)
}
