// Package weather turns a routed weather query into a one-line reply.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"DisasterChat/internal/backend"
	"DisasterChat/internal/cache"
)

// MissingLocationReply is returned when the message named no city.
const MissingLocationReply = `Please tell me which city you want the weather for, e.g. "weather in Paris".`

// Provider fetches current conditions.
type Provider interface {
	Current(ctx context.Context, location string) (backend.Report, error)
}

// Responder formats provider results, mapping every failure to a fixed reply.
type Responder struct {
	provider Provider
	cache    *cache.TTLCache[backend.Report]
	logger   *slog.Logger
}

// NewResponder builds a Responder. c may be nil.
func NewResponder(p Provider, c *cache.TTLCache[backend.Report], logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{provider: p, cache: c, logger: logger}
}

// Respond answers a weather query for location. An empty location gets the
// clarification prompt without contacting the provider.
func (r *Responder) Respond(ctx context.Context, location string) string {
	if location == "" {
		return MissingLocationReply
	}

	// Cached reports are shared across spellings of a location; the reply
	// always names the location as this query wrote it.
	key := cache.GenerateCacheKey("weather", location)
	if report, ok := r.cache.Get(key); ok {
		r.logger.Info("weather cache hit", "location", location)
		report.Location = location
		return Format(report)
	}

	report, err := r.provider.Current(ctx, location)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			r.logger.Info("weather location not found", "location", location)
		} else {
			r.logger.Error("failed to fetch weather", "location", location, "error", err)
		}
		return FailureReply(location)
	}

	r.cache.Put(key, report)
	return Format(report)
}

// Format renders a report as the user-facing summary. The temperature is
// printed exactly as the provider sent it.
func Format(r backend.Report) string {
	return fmt.Sprintf("The current weather in %s is %s with a temperature of %s°C and humidity of %d%%.",
		r.Location, r.Description, r.Temperature.String(), r.Humidity)
}

// FailureReply is the reply for unknown locations and provider errors.
func FailureReply(location string) string {
	return fmt.Sprintf("Could not fetch weather for %s. Please try again.", location)
}
