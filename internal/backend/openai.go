package backend

import (
	"context"
	"fmt"
)

const (
	GroqURL   = "https://api.groq.com/openai/v1/chat/completions"
	GroqModel = "llama3-70b-8192"

	OpenAIURL   = "https://api.openai.com/v1/chat/completions"
	OpenAIModel = "gpt-4o-mini"
)

// OpenAIMessage is one entry of a chat completion request
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIRequest represents the request body for OpenAI-compatible APIs
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// OpenAIResponse represents the response from OpenAI-compatible APIs
type OpenAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      OpenAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]interface{} `json:"usage"`
}

// openAIClient talks to any OpenAI-compatible chat completions endpoint.
// Groq is served through it as well.
type openAIClient struct {
	caller
	url    string
	model  string
	apiKey string
}

func newOpenAIClient(name, url, model, apiKey string, deps Deps) *openAIClient {
	return &openAIClient{
		caller: newCaller(name, deps),
		url:    url,
		model:  model,
		apiKey: apiKey,
	}
}

func (c *openAIClient) Name() string { return c.name }

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	reqBody := OpenAIRequest{
		Model: c.model,
		Messages: []OpenAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
	}

	var apiResp OpenAIResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.postJSON(ctx, c.url, headers, reqBody, &apiResp); err != nil {
		return "", err
	}

	c.recordUsage(ctx, apiResp.Usage)

	if len(apiResp.Choices) > 0 {
		return apiResp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("%w: empty response from %s", ErrTransport, c.name)
}
