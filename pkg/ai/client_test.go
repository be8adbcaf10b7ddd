package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aijournal/aijournal/pkg/ai"
)

// newMockServer returns an httptest server that answers every chat-completion
// request with the given handler, plus a config pointed at it.
func newMockServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, ai.Config) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ai.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.Timeout = 5 * time.Second
	return server, cfg
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":    "chatcmpl-test",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	})
	return string(body)
}

func TestClientComplete(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("Hello from the provider")))
	})

	client := ai.NewClient(cfg, nil)
	text, err := client.Complete(context.Background(), "system msg", "user msg", cfg.Translation)

	require.NoError(t, err)
	assert.Equal(t, "Hello from the provider", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq["model"])

	messages := gotReq["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, float64(2000), gotReq["max_tokens"])
}

func TestClientCompleteProviderError(t *testing.T) {
	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})

	client := ai.NewClient(cfg, nil)
	_, err := client.Complete(context.Background(), "s", "u", cfg.Feedback)

	require.Error(t, err)
	assert.True(t, ai.IsProviderError(err))

	var aiErr *ai.Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, http.StatusUnauthorized, aiErr.Status)
	assert.Contains(t, aiErr.Message, "bad key")
}

func TestClientCompleteMalformedBody(t *testing.T) {
	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	client := ai.NewClient(cfg, nil)
	_, err := client.Complete(context.Background(), "s", "u", cfg.Feedback)

	require.Error(t, err)
	assert.True(t, ai.IsParseError(err))
}

func TestClientCompleteEmptyContentIsParseError(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"x","choices":[]}`))
		})

		client := ai.NewClient(cfg, nil)
		_, err := client.Complete(context.Background(), "s", "u", cfg.Title)

		require.Error(t, err)
		assert.True(t, ai.IsParseError(err))
		assert.ErrorIs(t, err, ai.ErrEmptyContent)
	})

	t.Run("blank content", func(t *testing.T) {
		_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionBody("")))
		})

		client := ai.NewClient(cfg, nil)
		_, err := client.Complete(context.Background(), "s", "u", cfg.Title)

		require.Error(t, err)
		assert.True(t, ai.IsParseError(err))
	})
}

func TestClientCompleteRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("second try")))
	})

	client := ai.NewClient(cfg, nil)
	text, err := client.Complete(context.Background(), "s", "u", cfg.Translation)

	require.NoError(t, err)
	assert.Equal(t, "second try", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientCompleteDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32

	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	})

	client := ai.NewClient(cfg, nil)
	_, err := client.Complete(context.Background(), "s", "u", cfg.Translation)

	require.Error(t, err)
	assert.True(t, ai.IsProviderError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientCompleteGivesUpAfterRetryBudget(t *testing.T) {
	var calls atomic.Int32

	_, cfg := newMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	client := ai.NewClient(cfg, nil)
	_, err := client.Complete(context.Background(), "s", "u", cfg.Translation)

	require.Error(t, err)
	assert.True(t, ai.IsProviderError(err))

	var aiErr *ai.Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, http.StatusInternalServerError, aiErr.Status)
	assert.Equal(t, int32(2), calls.Load(), "one initial call plus one retry")
}
