package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driving"
	"github.com/ankitghanghas07/semantic-search/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// SimilarityThreshold is the minimum top-result score required before
// the LLM is consulted. Below it the canonical "don't know" answer is
// returned, guarding against answers hallucinated from irrelevant
// context.
const SimilarityThreshold = 0.3

// AnswerService produces grounded, citation-validated answers on top of
// semantic search.
type AnswerService struct {
	searcher driving.Searcher
	llm      driven.LLMService
}

// NewAnswerService creates an answer service.
func NewAnswerService(searcher driving.Searcher, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		searcher: searcher,
		llm:      llm,
	}
}

// Answer runs semantic search, short-circuits when grounding is
// insufficient, and otherwise asks the LLM for a structured answer
// whose citations are validated against the retrieved candidates.
func (s *AnswerService) Answer(
	ctx context.Context, userID, query, documentID string, topK int,
) (*domain.ChatResponse, error) {
	results, err := s.searcher.Search(ctx, userID, query, documentID, topK)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 || results[0].Score < SimilarityThreshold {
		logger.Debug("answer: insufficient grounding, returning canonical refusal")
		return domain.NoAnswer(), nil
	}

	prompt := buildGroundingPrompt(query, results)

	answer, err := s.llm.GenerateGrounded(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	citations := normaliseCitations(answer.Citations, len(results))
	logger.Debug("answer: %d raw citations, %d valid", len(answer.Citations), len(citations))

	// An answer without any verifiable citation is still returned;
	// callers may treat an empty source list as lower confidence.
	sources := make([]domain.CitedSource, 0, len(citations))
	for _, n := range citations {
		// n is 1-based into the same ordered result list the prompt
		// numbered its sources from.
		candidate := results[n-1]
		sources = append(sources, domain.CitedSource{
			ChunkID:   candidate.ChunkID,
			Relevance: candidate.Score,
		})
	}

	return &domain.ChatResponse{
		Answer:  answer.Answer,
		Sources: sources,
	}, nil
}

// buildGroundingPrompt enumerates each candidate as a numbered source
// (1-based) and instructs the model to answer strictly from them,
// returning JSON. Prompt numbering and result ordering must stay
// aligned: citation N maps back to results[N-1].
func buildGroundingPrompt(query string, results []domain.SearchResult) string {
	var context strings.Builder
	for i, r := range results {
		fmt.Fprintf(&context, "Source %d:\n%s\n\n", i+1, r.Content)
	}

	return fmt.Sprintf(`You are an assistant answering questions using ONLY the provided sources.

Rules:
- Use ONLY the information in the sources.
- Do NOT use outside knowledge.
- If the answer is not found, return JSON where answer is exactly "I don't know" and citations is an empty array.

Citation rules:
- Each source has a numeric ID (1, 2, 3, ...).
- Citations MUST be source numbers.
- Do NOT invent citations.
- Do NOT include citations not used in the answer.
- Citations array MUST NOT be empty if answer is not "I don't know".

Output rules:
- Return ONLY valid JSON.
- Do NOT include markdown.
- Do NOT include explanations.
- Do NOT include text outside JSON.

JSON format:
{
  "answer": string,
  "citations": number[]
}

Sources:
%s
Question:
%s
`, context.String(), query)
}

// normaliseCitations filters the model's raw citation list down to
// unique integers within [1, max], preserving first-occurrence order.
// Anything else - duplicates, out-of-range numbers, non-integers - is
// silently dropped: the model is allowed to be imprecise, but a
// fabricated citation must never reach the caller.
func normaliseCitations(raw []any, max int) []int {
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))

	for _, v := range raw {
		n, ok := asInt(v)
		if !ok || n < 1 || n > max || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}

	return out
}

// asInt accepts the integer shapes JSON decoding can produce.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}
