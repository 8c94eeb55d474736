package chatbot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"DisasterChat/internal/assistant"
	"DisasterChat/internal/backend"
	"DisasterChat/internal/cache"
	"DisasterChat/internal/config"
	"DisasterChat/internal/router"
	"DisasterChat/internal/session"
	"DisasterChat/internal/telemetry"
	"DisasterChat/internal/weather"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ChatBot routes user messages to the weather or assistant responder and
// records each completed turn in the caller's session log.
type ChatBot struct {
	config  config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	weather *weather.Responder
	session *session.Log // terminal session
	mu      sync.Mutex

	// newCompleter builds the LLM client for each assistant turn.
	newCompleter func(cfg config.Config) (backend.Completer, error)

	closers []func()
}

// NewChatBot creates a ChatBot with file logging and telemetry
func NewChatBot(cfg config.Config) (*ChatBot, error) {
	logger, logFile, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if cfg.Debug {
		logger.Debug("Debug mode enabled")
	}

	deps := backend.Deps{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Logger:     logger,
		Tracer:     tracer,
		Meter:      meter,
	}
	weatherClient := backend.NewWeatherClient(cfg.WeatherURL, cfg.WeatherAPIKey, deps)

	cb := newChatBot(cfg, deps, weatherClient)
	cb.closers = append(cb.closers, cleanup, func() { logFile.Close() })
	return cb, nil
}

func newChatBot(cfg config.Config, deps backend.Deps, provider weather.Provider) *ChatBot {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("disasterchat")
	}
	if deps.Meter == nil {
		deps.Meter = otel.Meter("disasterchat")
	}

	cb := &ChatBot{
		config:  cfg,
		logger:  deps.Logger,
		tracer:  deps.Tracer,
		meter:   deps.Meter,
		weather: weather.NewResponder(provider, cache.New[backend.Report](cfg.WeatherCacheTTL), deps.Logger),
	}
	cb.newCompleter = func(c config.Config) (backend.Completer, error) {
		return backend.New(c, deps)
	}
	cb.session = cb.newSession()
	return cb
}

// newSession creates a new session
func (cb *ChatBot) newSession() *session.Log {
	sess := session.New()
	cb.logger.Info("created new session", "session_id", sess.ID, "backend", cb.Backend())
	return sess
}

// NewSession starts a session log for an external collaborator such as the
// web page.
func (cb *ChatBot) NewSession() *session.Log {
	return cb.newSession()
}

// Backend returns the active LLM backend name.
func (cb *ChatBot) Backend() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.config.Backend
}

// SetBackend switches the LLM backend used by later turns.
func (cb *ChatBot) SetBackend(name string) error {
	if !config.ValidBackend(name) {
		return fmt.Errorf("unknown backend: %s", name)
	}
	cb.mu.Lock()
	cb.config.Backend = name
	cb.mu.Unlock()
	cb.logger.Info("switched backend", "backend", name)
	return nil
}

// Turn handles one user message against log and returns the reply. Provider
// failures become fixed replies and the turn is still recorded. A provider
// that cannot be initialized aborts the turn: the error is returned and the
// log is left untouched.
func (cb *ChatBot) Turn(ctx context.Context, log *session.Log, input string) (string, error) {
	ctx, span := cb.tracer.Start(ctx, "chat_turn")
	defer span.End()

	q := router.Classify(input)
	span.SetAttributes(attribute.String("query.kind", q.Kind.String()))

	var reply string
	switch q.Kind {
	case router.KindWeather:
		reply = cb.weather.Respond(ctx, q.Location)
	default:
		cb.mu.Lock()
		cfg := cb.config
		cb.mu.Unlock()

		completer, err := cb.newCompleter(cfg)
		if err != nil {
			span.RecordError(err)
			cb.logger.Error("failed to initialize LLM client", "backend", cfg.Backend, "error", err)
			return "", err
		}
		reply = assistant.NewResponder(completer, cb.logger).Respond(ctx, log.Messages(), q.Text)
	}

	log.AppendTurn(input, reply)
	cb.recordTurn(ctx, q.Kind)
	cb.logger.Info("turn completed", "session_id", log.ID, "kind", q.Kind.String(), "messages", log.Len())
	return reply, nil
}

func (cb *ChatBot) recordTurn(ctx context.Context, kind router.Kind) {
	counter, err := cb.meter.Int64Counter(
		"chat.turns",
		metric.WithDescription("Completed chat turns by query kind"),
	)
	if err != nil {
		cb.logger.Warn("failed to create counter", "error", err)
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

// handleCommand handles special commands
func (cb *ChatBot) handleCommand(cmd string, out io.Writer) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new-session":
		cb.session = cb.newSession()
		fmt.Fprintln(out, "Started new session:", cb.session.ID)
		fmt.Fprintf(out, "Bot: %s\n\n", session.Greeting)
		return false, nil

	case "/switch":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /switch <backend> (groq|openai|anthropic|ollama)")
		}
		if err := cb.SetBackend(parts[1]); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Switched to %s backend\n", parts[1])
		return false, nil

	case "/history":
		renderLog(out, cb.session)
		return false, nil

	case "/help":
		fmt.Fprintln(out, "Available commands:")
		fmt.Fprintln(out, "  /quit, /exit        - Exit the chatbot")
		fmt.Fprintln(out, "  /new-session        - Start a new chat session")
		fmt.Fprintln(out, "  /switch <backend>   - Switch LLM backend (groq|openai|anthropic|ollama)")
		fmt.Fprintln(out, "  /history            - Show the conversation so far")
		fmt.Fprintln(out, "  /help               - Show this help message")
		fmt.Fprintln(out, `Ask about the weather with "weather in <city>".`)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s", parts[0])
	}
}

// renderLog prints every message of log. It only reads the log.
func renderLog(out io.Writer, log *session.Log) {
	for _, msg := range log.Messages() {
		name := "You"
		if msg.Role == session.RoleAssistant {
			name = "Bot"
		}
		fmt.Fprintf(out, "%s: %s\n", name, msg.Content)
	}
	fmt.Fprintln(out)
}

// Run starts the terminal chat loop on stdin and stdout
func (cb *ChatBot) Run() error {
	return cb.run(context.Background(), os.Stdin, os.Stdout)
}

func (cb *ChatBot) run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "=== Disaster Response Chatbot ===")
	fmt.Fprintf(out, "Session: %s\n", cb.session.ID)
	fmt.Fprintf(out, "Backend: %s\n", cb.Backend())
	fmt.Fprintln(out, "Type /help for commands, /quit to exit")
	fmt.Fprintln(out)
	renderLog(out, cb.session)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := cb.handleCommand(input, out)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				cb.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		reply, err := cb.Turn(ctx, cb.session, input)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "Bot: %s\n\n", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(out, "Goodbye!")
	return nil
}

// Close flushes telemetry and closes log files.
func (cb *ChatBot) Close() {
	for _, closeFn := range cb.closers {
		closeFn()
	}
	cb.closers = nil
}
