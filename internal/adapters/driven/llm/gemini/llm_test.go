package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitghanghas07/semantic-search/internal/core/domain"
)

func testConfig(serverURL string) Config {
	return Config{
		APIKey:         "test-key",
		BaseURL:        serverURL,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
	}
}

// candidatePayload wraps model output text in the generateContent
// response envelope.
func candidatePayload(text string) string {
	data, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(data)
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)
}

func TestGenerateGrounded_Success(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, candidatePayload(`{"answer": "Paris is the capital.", "citations": [1, 2]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	answer, err := svc.GenerateGrounded(context.Background(), "where is paris?")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital.", answer.Answer)
	assert.Equal(t, []any{float64(1), float64(2)}, answer.Citations)

	assert.Equal(t, "/models/gemini-2.0-flash-exp:generateContent", gotPath)
	assert.Equal(t, float64(0), gotBody.GenerationConfig.Temperature)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "where is paris?", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateGrounded_KeepsNonIntegerCitations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, candidatePayload(`{"answer": "ok", "citations": [1, "x", 3]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	answer, err := svc.GenerateGrounded(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), "x", float64(3)}, answer.Citations)
}

func TestGenerateGrounded_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, candidatePayload(`not json at all`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	_, err = svc.GenerateGrounded(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrMalformedAnswer)
}

func TestGenerateGrounded_EmptyAnswerField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, candidatePayload(`{"answer": "", "citations": []}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	_, err = svc.GenerateGrounded(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrMalformedAnswer)
}

func TestGenerateGrounded_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	_, err = svc.GenerateGrounded(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrMalformedAnswer)
}

func TestGenerateGrounded_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, candidatePayload(`{"answer": "recovered", "citations": []}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	answer, err := svc.GenerateGrounded(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer.Answer)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateGrounded_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	_, err = svc.GenerateGrounded(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateGrounded_MalformedAnswerIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, candidatePayload(`garbage`))
	}))
	defer server.Close()

	svc, err := NewLLMService(testConfig(server.URL))
	require.NoError(t, err)

	_, err = svc.GenerateGrounded(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrMalformedAnswer)
	assert.Equal(t, int32(1), calls.Load())
}
