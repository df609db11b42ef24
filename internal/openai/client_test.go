package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mnoop "go.opentelemetry.io/otel/metric/noop"
	tnoop "go.opentelemetry.io/otel/trace/noop"
)

func testClient(baseURL string) *Client {
	c := NewClient("sk-test",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		tnoop.NewTracerProvider().Tracer("test"),
		mnoop.NewMeterProvider().Meter("test"),
	)
	c.baseURL = baseURL
	return c
}

func TestClient_Chat(t *testing.T) {
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3}
		}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reply, err := c.Chat(context.Background(), "gpt-4", []ChatMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}, 0.7)

	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, "gpt-4", gotReq.Model)
	assert.Equal(t, 0.7, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestClient_ChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), "gpt-4", nil, 0.7)
	assert.ErrorContains(t, err, "empty response")
}

func TestClient_ChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), "gpt-4", nil, 0.7)
	require.Error(t, err)
	assert.ErrorContains(t, err, "API error")
	assert.ErrorContains(t, err, "rate limited")
}

func TestClient_GenerateImage(t *testing.T) {
	var gotReq ImageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, imagePath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{"created": 1, "data": [{"url": "https://img.example/fox.png"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	url, err := c.GenerateImage(context.Background(), "dall-e-3", "a red fox", "1024x1024", "standard")

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/fox.png", url)
	assert.Equal(t, "dall-e-3", gotReq.Model)
	assert.Equal(t, "a red fox", gotReq.Prompt)
	assert.Equal(t, 1, gotReq.N)
	assert.Equal(t, "1024x1024", gotReq.Size)
	assert.Equal(t, "standard", gotReq.Quality)
}

func TestClient_GenerateImageEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"created": 1, "data": []}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GenerateImage(context.Background(), "dall-e-3", "a fox", "1024x1024", "standard")
	assert.ErrorContains(t, err, "empty response")
}
