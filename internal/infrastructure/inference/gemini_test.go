package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc, key string) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewGeminiClient(config.InferenceConfig{
		APIKey:          key,
		BaseURL:         srv.URL + "/v1beta/",
		Model:           "gemini-2.5-flash-lite",
		Temperature:     0.3,
		MaxOutputTokens: 256,
		Timeout:         2 * time.Second,
	}, nil)
}

func TestGenerate_JoinsCandidateParts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash-lite:generateContent", r.URL.Path)
		assert.Equal(t, "k-123", r.URL.Query().Get("key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "user", body.Contents[0].Role)
		assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		assert.Equal(t, 0.3, body.GenerationConfig.Temperature)
		assert.Equal(t, 256, body.GenerationConfig.MaxOutputTokens)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  The program "},{"text":"is free. "}]}}]}`))
	}, "k-123")

	got, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "The program is free.", got.Text)
	assert.Empty(t, got.BlockReason)
}

func TestGenerate_BlockReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}, "k")

	got, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "SAFETY", got.BlockReason)
	assert.Empty(t, got.Text)
}

func TestGenerate_SkipsEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[
			{"content":{"parts":[]},"finishReason":"SAFETY"},
			{"content":{"parts":[{"text":" "}]},"finishReason":"MAX_TOKENS"},
			{"content":{"parts":[{"text":"Apply from the careers page."}]},"finishReason":"STOP"}]}`))
	}, "k")

	got, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Apply from the careers page.", got.Text)
	assert.Empty(t, got.BlockReason)
}

func TestGenerate_SafetyFinishWithoutPartsIsBlocked(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"finishReason":"SAFETY","safetyRatings":[{"category":"HARM_CATEGORY_HARASSMENT","probability":"HIGH"}]}]}`))
	}, "k")

	got, err := c.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "SAFETY", got.BlockReason)
	assert.Empty(t, got.Text)
}

func TestReplyFrom_EmptyStopIsNotBlocked(t *testing.T) {
	got := replyFrom(generateResponse{Candidates: []candidate{{FinishReason: "STOP"}}})
	assert.Equal(t, Reply{}, got)
}

func TestGenerate_ErrorPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}, "k")

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.NotContains(t, err.Error(), "API key not valid")
}

func TestGenerate_Non2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}, "k")

	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestGenerate_MissingKey(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, " ")

	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.False(t, called)
}
