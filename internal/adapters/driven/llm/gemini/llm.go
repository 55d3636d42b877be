// Package gemini provides an LLM service adapter using the Google
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
	"time"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
	"github.com/ankitghanghas07/semantic-search/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel          = "models/gemini-2.0-flash-exp"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second

	// maxOutputTokens bounds answer length.
	maxOutputTokens = 2048
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL. Can be changed for proxies or tests.
	BaseURL string

	// Model is the generation model to use (default: models/gemini-2.0-flash-exp).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// MaxRetries is how many times a retryable failure is retried
	// (default: 3).
	MaxRetries int

	// InitialBackoff is the delay before the first retry; it doubles
	// per attempt (default: 1s).
	InitialBackoff time.Duration
}

// LLMService generates grounded answers using the Gemini API.
type LLMService struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	model          string
	maxRetries     int
	initialBackoff time.Duration
}

// generateRequest is the Gemini generateContent request format.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

// generateResponse is the Gemini generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// groundedPayload is the JSON shape the model is asked to produce.
// Citations stay untyped; models occasionally emit strings or floats
// and the caller decides what to keep.
type groundedPayload struct {
	Answer    string `json:"answer"`
	Citations []any  `json:"citations"`
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
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
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
	}, nil
}

// GenerateGrounded sends a grounding prompt and returns the model's
// structured answer. Temperature is pinned to zero so answers stay
// reproducible for a given chunk set.
func (s *LLMService) GenerateGrounded(ctx context.Context, prompt string) (*driven.GroundedAnswer, error) {
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

		answer, err := s.generateOnce(ctx, prompt)
		if err == nil {
			return answer, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("gemini: generation failed after %d retries: %w", s.maxRetries, lastErr)
}

// ModelName returns the name of the generation model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

func (s *LLMService) generateOnce(ctx context.Context, prompt string) (*driven.GroundedAnswer, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      0,
			MaxOutputTokens:  maxOutputTokens,
			ResponseMimeType: "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
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

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if genResp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", genResp.Error.Message)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned", domain.ErrMalformedAnswer)
	}

	text := genResp.Candidates[0].Content.Parts[0].Text

	var payload groundedPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedAnswer, err)
	}
	if payload.Answer == "" {
		return nil, fmt.Errorf("%w: empty answer field", domain.ErrMalformedAnswer)
	}

	return &driven.GroundedAnswer{
		Answer:    payload.Answer,
		Citations: payload.Citations,
	}, nil
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
