package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

// mockEmbedder is a hand-rolled driven.EmbeddingService for tests.
// EmbedFn controls the vector per text; a nil EmbedFn yields a fixed
// unit vector so ingestion paths work without caring about geometry.
type mockEmbedder struct {
	EmbedFn    func(text string) ([]float32, error)
	embedCalls atomic.Int32
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.EmbedFn != nil {
		return m.EmbedFn(text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := m.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d of %d: %w", i+1, len(texts), err)
		}
		out[i] = vector
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return 3 }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

// mockLLM is a hand-rolled driven.LLMService for tests.
type mockLLM struct {
	GenerateFn func(prompt string) (*driven.GroundedAnswer, error)
	calls      atomic.Int32
	lastPrompt string
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) GenerateGrounded(_ context.Context, prompt string) (*driven.GroundedAnswer, error) {
	m.calls.Add(1)
	m.lastPrompt = prompt
	if m.GenerateFn != nil {
		return m.GenerateFn(prompt)
	}
	return &driven.GroundedAnswer{Answer: "mock answer", Citations: []any{float64(1)}}, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

// mockSearcher is a hand-rolled driving.Searcher for answer tests.
type mockSearcher struct {
	Results []domain.SearchResult
	Err     error
}

func (m *mockSearcher) Search(
	_ context.Context, _, _, _ string, _ int,
) ([]domain.SearchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

// mockIngestor records processed jobs for worker tests.
type mockIngestor struct {
	ProcessFn    func(job *domain.IngestionJob) error
	processCalls atomic.Int32
}

func (m *mockIngestor) Upload(_ context.Context, _, _, _ string) (*domain.Document, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockIngestor) Reingest(_ context.Context, _ string) error {
	return fmt.Errorf("not implemented")
}

func (m *mockIngestor) Process(_ context.Context, job *domain.IngestionJob) error {
	m.processCalls.Add(1)
	if m.ProcessFn != nil {
		return m.ProcessFn(job)
	}
	return nil
}
