package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// WeatherResponse is the subset of the current-weather payload we read.
// Pointers distinguish a missing field from a zero value.
type WeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     *json.Number `json:"temp"`
		Humidity *int         `json:"humidity"`
	} `json:"main"`
}

// Report holds current conditions for one location.
type Report struct {
	Location    string
	Description string
	Temperature json.Number // °C, as sent by the provider
	Humidity    int         // percent
}

// WeatherClient queries a current-weather endpoint in metric units.
type WeatherClient struct {
	caller
	endpoint string
	apiKey   string
}

// NewWeatherClient returns a client for endpoint. The API key may be empty;
// the provider then rejects the call and the caller sees ErrTransport.
func NewWeatherClient(endpoint, apiKey string, deps Deps) *WeatherClient {
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("disasterchat")
	}
	if deps.Meter == nil {
		deps.Meter = otel.Meter("disasterchat")
	}
	return &WeatherClient{
		caller:   newCaller("weather", deps),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Current fetches current conditions for location with a single request.
// An unknown location yields ErrNotFound; everything else that goes wrong
// yields ErrTransport.
func (c *WeatherClient) Current(ctx context.Context, location string) (Report, error) {
	ctx, span := c.tracer.Start(ctx, "weather_api_call")
	defer span.End()
	span.SetAttributes(attribute.String("weather.location", location))

	start := time.Now()

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return Report{}, fmt.Errorf("%w: failed to send request: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{}, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.recordDuration(ctx, start)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		span.SetStatus(codes.Error, resp.Status)
		return Report{}, fmt.Errorf("%w: location %q", ErrNotFound, location)
	case resp.StatusCode != http.StatusOK:
		span.SetStatus(codes.Error, resp.Status)
		return Report{}, fmt.Errorf("%w: API error: %s - %s", ErrTransport, resp.Status, string(body))
	}

	var apiResp WeatherResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Report{}, fmt.Errorf("%w: failed to unmarshal response: %v", ErrTransport, err)
	}
	if len(apiResp.Weather) == 0 || apiResp.Main.Temp == nil || apiResp.Main.Humidity == nil {
		return Report{}, fmt.Errorf("%w: incomplete weather payload for %q", ErrTransport, location)
	}

	return Report{
		Location:    location,
		Description: apiResp.Weather[0].Description,
		Temperature: *apiResp.Main.Temp,
		Humidity:    *apiResp.Main.Humidity,
	}, nil
}
