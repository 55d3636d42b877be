// Package gemini provides an embedding service adapter using the Google
// Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel          = "models/embedding-001"
	DefaultTimeout        = 15 * time.Second
	DefaultMaxConcurrent  = 4
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
)

// Model dimensions for Gemini embedding models.
var modelDimensions = map[string]int{
	"models/embedding-001":      768,
	"models/text-embedding-004": 768,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for proxies or tests.
	BaseURL string

	// Model is the embedding model to use (default: models/embedding-001).
	Model string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// MaxConcurrent caps in-flight embedding requests (default: 4).
	MaxConcurrent int

	// MinInterval is the minimum spacing between request starts.
	// Zero disables client-side rate limiting.
	MinInterval time.Duration

	// MaxRetries is how many times a retryable failure is retried
	// (default: 3).
	MaxRetries int

	// InitialBackoff is the delay before the first retry; it doubles
	// per attempt (default: 1s).
	InitialBackoff time.Duration
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	model          string
	dimensions     int
	limiter        *rate.Limiter
	sem            chan struct{}
	maxRetries     int
	initialBackoff time.Duration
}

// embedRequest is the Gemini embedContent request format.
type embedRequest struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

// embedResponse is the Gemini embedContent response format.
type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}

	dimensions, ok := modelDimensions[cfg.Model]
	if !ok {
		dimensions = 768
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		dimensions:     dimensions,
		limiter:        limiter,
		sem:            make(chan struct{}, cfg.MaxConcurrent),
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.initialBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vector, err := s.embedOnce(ctx, text)
		if err == nil {
			if len(vector) != s.dimensions {
				return nil, fmt.Errorf("gemini: expected %d dimensions, got %d", s.dimensions, len(vector))
			}
			return vector, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("gemini: embedding failed after %d retries: %w", s.maxRetries, lastErr)
}

// EmbedBatch generates embeddings for multiple texts concurrently,
// bounded by MaxConcurrent. Any single failure fails the whole batch
// with every failed text's reason joined into one error; partial
// results are never returned.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	failures := make([]error, len(texts))

	var wg sync.WaitGroup
	wg.Add(len(texts))
	for i, text := range texts {
		go func(i int, text string) {
			defer wg.Done()
			vector, err := s.Embed(ctx, text)
			if err != nil {
				failures[i] = fmt.Errorf("gemini: embedding text %d of %d: %w", i+1, len(texts), err)
				return
			}
			embeddings[i] = vector
		}(i, text)
	}
	wg.Wait()

	if err := errors.Join(failures...); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// embedOnce performs a single embedContent call.
func (s *EmbeddingService) embedOnce(ctx context.Context, text string) ([]float32, error) {
	var reqBody embedRequest
	reqBody.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &httpError{cause: fmt.Errorf("send request: %w", err), retryable: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httpError{cause: fmt.Errorf("read response: %w", err), retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", embedResp.Error.Message)
	}
	if len(embedResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}

	return embedResp.Embedding.Values, nil
}

// httpError marks transport and server failures for the retry loop.
type httpError struct {
	cause     error
	retryable bool
}

func (e *httpError) Error() string { return e.cause.Error() }
func (e *httpError) Unwrap() error { return e.cause }

// statusError classifies a non-200 response. Rate limiting and server
// errors are retryable; auth and other client errors fail fast.
func statusError(code int, body []byte) error {
	msg := truncateBody(body)
	switch {
	case code == http.StatusTooManyRequests:
		return &httpError{
			cause:     fmt.Errorf("gemini error (status %d): %w: %s", code, domain.ErrRateLimited, msg),
			retryable: true,
		}
	case code >= http.StatusInternalServerError:
		return &httpError{
			cause:     fmt.Errorf("gemini error (status %d): %s", code, msg),
			retryable: true,
		}
	default:
		return &httpError{
			cause:     fmt.Errorf("gemini error (status %d): %s", code, msg),
			retryable: false,
		}
	}
}

func isRetryable(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.retryable
	}
	return false
}

const maxBodyInError = 512

func truncateBody(body []byte) string {
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return string(body)
}
