package backend

import (
	"context"
	"fmt"

	"DisasterChat/internal/config"
)

const (
	AnthropicURL     = "https://api.anthropic.com/v1/messages"
	AnthropicModel   = "claude-sonnet-4-20250514"
	anthropicVersion = "2023-06-01"
)

// AnthropicRequest represents the request body for Anthropic API
type AnthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []AnthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

// AnthropicMessage represents a message in the conversation
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicContent is one block of a response
type AnthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// AnthropicResponse represents the response from Anthropic API
type AnthropicResponse struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Role         string                 `json:"role"`
	Content      []AnthropicContent     `json:"content"`
	Model        string                 `json:"model"`
	StopReason   string                 `json:"stop_reason"`
	StopSequence string                 `json:"stop_sequence"`
	Usage        map[string]interface{} `json:"usage"`
}

type anthropicClient struct {
	caller
	url    string
	model  string
	apiKey string
}

func newAnthropicClient(url, model, apiKey string, deps Deps) *anthropicClient {
	return &anthropicClient{
		caller: newCaller(config.BackendAnthropic, deps),
		url:    url,
		model:  model,
		apiKey: apiKey,
	}
}

func (c *anthropicClient) Name() string { return c.name }

// Complete sends the system instruction in the top-level field, which is
// where the Messages API expects it.
func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	reqBody := AnthropicRequest{
		Model:       c.model,
		MaxTokens:   1024,
		System:      req.System,
		Messages:    []AnthropicMessage{{Role: "user", Content: req.User}},
		Temperature: req.Temperature,
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var apiResp AnthropicResponse
	if err := c.postJSON(ctx, c.url, headers, reqBody, &apiResp); err != nil {
		return "", err
	}

	c.recordUsage(ctx, apiResp.Usage)

	for _, content := range apiResp.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}
	return "", fmt.Errorf("%w: empty response from Anthropic", ErrTransport)
}
