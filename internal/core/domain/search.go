package domain

// SearchResult is a ranked chunk produced by semantic search.
// It is transient and never persisted.
type SearchResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Content is the chunk text, returned for prompt construction and
	// direct display.
	Content string

	// Score is the cosine similarity against the query, in [-1, 1].
	Score float64
}

// CitedSource is one verifiable grounding reference in a chat answer.
type CitedSource struct {
	// ChunkID is the cited chunk.
	ChunkID string `json:"chunkId"`

	// Relevance is the similarity score the chunk had at retrieval time.
	Relevance float64 `json:"relevance"`
}

// ChatResponse is the shaped result of a retrieval-augmented answer.
// It is constructed per request and never persisted.
type ChatResponse struct {
	// Answer is the model's answer text, or the canonical refusal when
	// grounding was insufficient.
	Answer string `json:"answer"`

	// Sources lists the validated citations in the order the model
	// first cited them. Empty when the answer has no verifiable
	// grounding.
	Sources []CitedSource `json:"sources"`
}

// NoAnswerText is the canonical response when no sufficiently relevant
// context exists for a query.
const NoAnswerText = "I don't know based on the provided documents."

// NoAnswer returns the canonical "don't know" response with no sources.
func NoAnswer() *ChatResponse {
	return &ChatResponse{Answer: NoAnswerText, Sources: []CitedSource{}}
}
