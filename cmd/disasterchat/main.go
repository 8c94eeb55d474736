package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"DisasterChat/internal/chatbot"
	"DisasterChat/internal/config"
	"DisasterChat/internal/web"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Default()
	var envFile string

	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "LLM backend (groq|openai|anthropic|ollama)")
	flag.StringVar(&cfg.Model, "model", "", "Model override (defaults to the backend's model)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&cfg.LLMURL, "llm-url", "", "Completion endpoint override")
	flag.StringVar(&cfg.WeatherURL, "weather-url", cfg.WeatherURL, "Current weather endpoint")
	flag.DurationVar(&cfg.WeatherCacheTTL, "weather-cache-ttl", 0, "Reuse weather replies for this long (0 disables)")
	flag.BoolVar(&cfg.Web, "web", false, "Serve the chat page instead of the terminal chat")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for the chat page")
	flag.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for logs, traces and metrics")
	flag.StringVar(&envFile, "env-file", ".env", "File with API keys (GROQ_API_KEY, OPENWEATHER_API_KEY, ...)")
	flag.Parse()

	if !config.ValidBackend(cfg.Backend) {
		fmt.Fprintf(os.Stderr, "Unknown backend: %s\n", cfg.Backend)
		os.Exit(2)
	}

	if err := cfg.LoadEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", envFile, err)
		os.Exit(1)
	}

	bot, err := chatbot.NewChatBot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize chatbot: %v\n", err)
		os.Exit(1)
	}
	defer bot.Close()

	if cfg.Web {
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Serving chat page on %s\n", cfg.Addr)
		if err := web.NewServer(bot, nil).ListenAndServe(ctx, cfg.Addr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			bot.Close()
			os.Exit(1)
		}
		return
	}

	if err := bot.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		bot.Close()
		os.Exit(1)
	}
}
