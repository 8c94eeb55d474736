package backend

import (
	"context"

	"DisasterChat/internal/config"
)

const (
	OllamaURL       = "http://localhost:11434/api/chat"
	OllamaModelName = "llama3:latest"
)

// OllamaRequest represents the request body for Ollama API
type OllamaRequest struct {
	Model    string          `json:"model"`
	Messages []OpenAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  OllamaOptions   `json:"options"`
}

// OllamaOptions carries sampling parameters
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// OllamaResponse represents the response from Ollama API
type OllamaResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OpenAIMessage `json:"message"`
	Done      bool          `json:"done"`
}

type ollamaClient struct {
	caller
	url   string
	model string
}

func newOllamaClient(url, model string, deps Deps) *ollamaClient {
	return &ollamaClient{
		caller: newCaller(config.BackendOllama, deps),
		url:    url,
		model:  model,
	}
}

func (c *ollamaClient) Name() string { return c.name }

func (c *ollamaClient) Complete(ctx context.Context, req Request) (string, error) {
	reqBody := OllamaRequest{
		Model: c.model,
		Messages: []OpenAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream:  false,
		Options: OllamaOptions{Temperature: req.Temperature},
	}

	var apiResp OllamaResponse
	if err := c.postJSON(ctx, c.url, nil, reqBody, &apiResp); err != nil {
		return "", err
	}
	return apiResp.Message.Content, nil
}
