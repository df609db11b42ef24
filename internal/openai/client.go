// Package openai is the HTTP client for the model provider: chat
// completions and image generation. Both calls are single best-effort
// round trips; there are no retries.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL = "https://api.openai.com"
	chatPath       = "/v1/chat/completions"
	imagePath      = "/v1/images/generations"
)

// Client calls the model provider's HTTP APIs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

// NewClient creates a provider client. The API key must already be
// validated by the caller.
func NewClient(apiKey string, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// Chat performs one chat-completion call and returns the reply text.
func (c *Client) Chat(ctx context.Context, model string, messages []ChatMessage, temperature float64) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai_chat_call")
	defer span.End()

	start := time.Now()

	reqBody := ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	}

	body, err := c.post(ctx, chatPath, reqBody)
	if err != nil {
		return "", err
	}

	var apiResp ChatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))
	c.recordUsage(ctx, apiResp.Usage)

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from chat API")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// GenerateImage requests one generated image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, model, prompt, size, quality string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai_image_call")
	defer span.End()

	start := time.Now()

	reqBody := ImageRequest{
		Model:   model,
		Prompt:  prompt,
		N:       1,
		Size:    size,
		Quality: quality,
	}

	body, err := c.post(ctx, imagePath, reqBody)
	if err != nil {
		return "", err
	}

	var apiResp ImageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))

	if len(apiResp.Data) == 0 {
		return "", fmt.Errorf("empty response from image API")
	}

	return apiResp.Data[0].URL, nil
}

// post sends one JSON request and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, reqBody interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return body, nil
}

// recordDuration records the request duration histogram.
func (c *Client) recordDuration(ctx context.Context, duration time.Duration) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(duration.Milliseconds()))
	}
}

// recordUsage records token-usage counters from the API's usage block.
func (c *Client) recordUsage(ctx context.Context, usage map[string]interface{}) {
	if usage == nil {
		return
	}

	for key, value := range usage {
		if intVal, ok := value.(float64); ok {
			counter, err := c.meter.Int64Counter(
				fmt.Sprintf("llm.usage.%s", key),
				metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
			)
			if err != nil {
				c.logger.Warn("failed to create counter", "key", key, "error", err)
				continue
			}
			counter.Add(ctx, int64(intVal))
		}
	}
}
