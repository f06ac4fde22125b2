package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/alexa/config"
	"github.com/supportdesk/alexa/conversation"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIKey:      "sk-test",
		BaseURL:     baseURL,
		Model:       "gpt-4o-mini",
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func testHistory() []conversation.Message {
	return []conversation.Message{
		{Role: conversation.RoleSystem, Content: "You are a support assistant."},
		{Role: conversation.RoleUser, Content: "hello"},
	}
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	return string(body)
}

func errorBody(message string) string {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"message": message, "type": "invalid_request_error"},
	})
	return string(body)
}

func TestCompleteSuccess(t *testing.T) {
	var gotRequest map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("Hi, how can I help?")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	reply, err := client.Complete(context.Background(), testHistory())
	require.NoError(t, err)
	assert.Equal(t, "Hi, how can I help?", reply)

	// The request carries the full history plus the tunables.
	assert.Equal(t, "gpt-4o-mini", gotRequest["model"])
	assert.Equal(t, float64(1000), gotRequest["max_tokens"])
	assert.Equal(t, 0.7, gotRequest["temperature"])
	messages, ok := gotRequest["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system", first["role"])
}

func TestCompleteInvalidAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(errorBody("Incorrect API key provided")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	_, err := client.Complete(context.Background(), testHistory())
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestCompleteRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(errorBody("Rate limit reached")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	_, err := client.Complete(context.Background(), testHistory())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestCompleteGenericHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(errorBody("The server had an error")))
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	_, err := client.Complete(context.Background(), testHistory())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAPIKey)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "500")
}

func TestCompleteMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	_, err := client.Complete(context.Background(), testHistory())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("too late")))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := New(cfg)
	_, err := client.Complete(context.Background(), testHistory())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCompleteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(testConfig(url))
	_, err := client.Complete(context.Background(), testHistory())
	assert.ErrorIs(t, err, ErrNetwork)
}
