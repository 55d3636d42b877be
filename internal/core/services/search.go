package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driving"
	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// DefaultTopK is the number of results returned when the caller does
// not specify one.
const DefaultTopK = 5

// MaxTopK is the guardrail on requested result counts; ranking is an
// exhaustive linear scan, so unbounded topK means unbounded work
// downstream.
const MaxTopK = 20

// SearchService ranks a user's chunks against a query by cosine
// similarity. Ranking is an exhaustive linear scan over the candidate
// set, a deliberate simplicity choice at small corpus scale; there is
// no approximate index.
type SearchService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a search service.
func NewSearchService(docStore driven.DocumentStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		docStore: docStore,
		embedder: embedder,
	}
}

// Search embeds the query, scores the scoped candidate chunks and
// returns the top-K results by descending similarity. Ties keep
// retrieval order. An empty candidate set yields an empty slice.
func (s *SearchService) Search(
	ctx context.Context, userID, query, documentID string, topK int,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be at least 1", domain.ErrInvalidInput)
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	// A query that cannot be embedded fails the whole call; there is
	// no partial semantic search.
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var chunks []domain.Chunk
	if documentID != "" {
		chunks, err = s.docStore.ChunksForDocument(ctx, documentID, userID)
	} else {
		chunks, err = s.docStore.ChunksForUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load candidate chunks: %w", err)
	}

	if len(chunks) == 0 {
		logger.Debug("search: no candidate chunks for user %s", userID)
		return []domain.SearchResult{}, nil
	}

	queryNorm := vectorNorm(queryVec)
	results := make([]domain.SearchResult, len(chunks))
	for i, chunk := range chunks {
		results[i] = domain.SearchResult{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Content:    chunk.Content,
			Score:      cosineSimilarity(queryVec, chunk.Embedding, queryNorm),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}

	logger.Debug("search: %d candidates, returning %d", len(chunks), len(results))
	return results, nil
}

// cosineSimilarity computes dot(a,b)/(|a|*|b|) with the query norm
// precomputed. A zero-magnitude vector on either side scores exactly 0;
// so does a dimension mismatch, which only happens when stored vectors
// come from a different model.
func cosineSimilarity(a, b []float32, normA float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	if normA == 0 {
		return 0
	}

	var dot, sumB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		sumB += float64(b[i]) * float64(b[i])
	}

	normB := math.Sqrt(sumB)
	if normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
