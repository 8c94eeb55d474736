package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGroq      = "groq"
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendOllama    = "ollama"
)

const (
	DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultAddr       = ":8501"
	DefaultLogDir     = "logs"
)

// Temperature is the sampling temperature used for every completion.
const Temperature = 0.5

// Config holds application configuration
type Config struct {
	Backend string
	Model   string // Empty selects the backend's default model
	Debug   bool

	// Endpoint overrides, mostly useful for proxies and tests
	LLMURL     string
	WeatherURL string

	// Credentials, read from the environment
	GroqAPIKey      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	WeatherAPIKey   string

	WeatherCacheTTL time.Duration // Zero disables the weather cache

	Web    bool   // Serve the chat page instead of the terminal loop
	Addr   string // Listen address for the chat page
	LogDir string
}

// Default returns a Config with the defaults used by the command line.
func Default() Config {
	return Config{
		Backend:    BackendGroq,
		WeatherURL: DefaultWeatherURL,
		Addr:       DefaultAddr,
		LogDir:     DefaultLogDir,
	}
}

// LoadEnv fills the credential fields from the environment. Variables from
// envFile are loaded first when the file exists; values already present in the
// environment win.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return err
			}
		}
	}

	c.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.WeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	return nil
}

// ValidBackend reports whether name is a supported LLM backend.
func ValidBackend(name string) bool {
	switch name {
	case BackendGroq, BackendOpenAI, BackendAnthropic, BackendOllama:
		return true
	}
	return false
}
