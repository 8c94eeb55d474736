package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"DisasterChat/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Request is a single-shot completion: one system instruction and one user
// turn.
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Completer produces one completion per call.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Deps carries the shared collaborators of every provider client.
type Deps struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Meter      metric.Meter
}

// New builds the completer selected by cfg.Backend. The returned error wraps
// ErrProviderInit.
func New(cfg config.Config, deps Deps) (Completer, error) {
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("disasterchat")
	}
	if deps.Meter == nil {
		deps.Meter = otel.Meter("disasterchat")
	}

	switch cfg.Backend {
	case config.BackendGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("%w: GROQ_API_KEY not set", ErrProviderInit)
		}
		return newOpenAIClient(config.BackendGroq, orDefault(cfg.LLMURL, GroqURL), orDefault(cfg.Model, GroqModel), cfg.GroqAPIKey, deps), nil
	case config.BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrProviderInit)
		}
		return newOpenAIClient(config.BackendOpenAI, orDefault(cfg.LLMURL, OpenAIURL), orDefault(cfg.Model, OpenAIModel), cfg.OpenAIAPIKey, deps), nil
	case config.BackendAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY not set", ErrProviderInit)
		}
		return newAnthropicClient(orDefault(cfg.LLMURL, AnthropicURL), orDefault(cfg.Model, AnthropicModel), cfg.AnthropicAPIKey, deps), nil
	case config.BackendOllama:
		return newOllamaClient(orDefault(cfg.LLMURL, OllamaURL), orDefault(cfg.Model, OllamaModelName), deps), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend: %s", ErrProviderInit, cfg.Backend)
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// caller holds the HTTP plumbing shared by the provider clients.
type caller struct {
	name       string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

func newCaller(name string, deps Deps) caller {
	return caller{
		name:       name,
		httpClient: deps.HTTPClient,
		logger:     deps.Logger,
		tracer:     deps.Tracer,
		meter:      deps.Meter,
	}
}

// postJSON sends body to url and decodes a 200 response into out. Every
// failure wraps ErrTransport.
func (c caller) postJSON(ctx context.Context, url string, headers map[string]string, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, c.name+"_api_call")
	defer span.End()

	start := time.Now()

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}
	req.Header.Set("content-type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("%w: failed to send request: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.recordDuration(ctx, start)

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("%w: API error: %s - %s", ErrTransport, resp.Status, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to unmarshal response: %v", ErrTransport, err)
	}
	return nil
}

func (c caller) recordDuration(ctx context.Context, start time.Time) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.String("provider", c.name)))
	}
}

// recordUsage records token usage counters reported by the provider
func (c caller) recordUsage(ctx context.Context, usage map[string]interface{}) {
	for key, value := range usage {
		n, ok := value.(float64)
		if !ok {
			continue
		}
		counter, err := c.meter.Int64Counter(
			fmt.Sprintf("llm.usage.%s", key),
			metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
		)
		if err != nil {
			c.logger.Warn("failed to create counter", "key", key, "error", err)
			continue
		}
		counter.Add(ctx, int64(n), metric.WithAttributes(attribute.String("provider", c.name)))
	}
}
