package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"DisasterChat/internal/backend"
	"DisasterChat/internal/cache"
)

type fakeProvider struct {
	report backend.Report
	err    error
	calls  []string
}

func (f *fakeProvider) Current(ctx context.Context, location string) (backend.Report, error) {
	f.calls = append(f.calls, location)
	if f.err != nil {
		return backend.Report{}, f.err
	}
	r := f.report
	r.Location = location
	return r, nil
}

func TestRespondSuccess(t *testing.T) {
	p := &fakeProvider{report: backend.Report{Description: "clear sky", Temperature: "18.2", Humidity: 60}}
	r := NewResponder(p, nil, nil)

	got := r.Respond(context.Background(), "Paris")
	want := "The current weather in Paris is clear sky with a temperature of 18.2°C and humidity of 60%."
	if got != want {
		t.Errorf("Respond() = %q\nwant %q", got, want)
	}
	if len(p.calls) != 1 {
		t.Errorf("provider calls = %d, want 1", len(p.calls))
	}
}

func TestRespondFailures(t *testing.T) {
	for _, err := range []error{
		fmt.Errorf("%w: location", backend.ErrNotFound),
		fmt.Errorf("%w: connection refused", backend.ErrTransport),
	} {
		p := &fakeProvider{err: err}
		got := NewResponder(p, nil, nil).Respond(context.Background(), "Atlantis")
		if got != "Could not fetch weather for Atlantis. Please try again." {
			t.Errorf("Respond() with %v = %q", err, got)
		}
		if len(p.calls) != 1 {
			t.Errorf("provider calls = %d, want exactly 1 (no retry)", len(p.calls))
		}
	}
}

func TestRespondMissingLocation(t *testing.T) {
	p := &fakeProvider{}
	got := NewResponder(p, nil, nil).Respond(context.Background(), "")
	if got != MissingLocationReply {
		t.Errorf("Respond() = %q", got)
	}
	if len(p.calls) != 0 {
		t.Errorf("provider called %d times for missing location", len(p.calls))
	}
}

func TestRespondCache(t *testing.T) {
	p := &fakeProvider{report: backend.Report{Description: "rain", Temperature: "9", Humidity: 90}}
	r := NewResponder(p, cache.New[backend.Report](time.Minute), nil)

	first := r.Respond(context.Background(), "Bergen")
	second := r.Respond(context.Background(), "bergen")
	if len(p.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 with cache enabled", len(p.calls))
	}
	if want := "The current weather in Bergen is rain with a temperature of 9°C and humidity of 90%."; first != want {
		t.Errorf("first reply = %q, want %q", first, want)
	}
	if want := "The current weather in bergen is rain with a temperature of 9°C and humidity of 90%."; second != want {
		t.Errorf("cached reply = %q, want %q", second, want)
	}
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		temp json.Number
		want string
	}{
		{"18.2", "18.2"},
		{"20", "20"},
		{"20.0", "20.0"},
		{"-3.75", "-3.75"},
	}
	for _, tt := range tests {
		got := Format(backend.Report{Location: "X", Description: "d", Temperature: tt.temp, Humidity: 1})
		want := "The current weather in X is d with a temperature of " + tt.want + "°C and humidity of 1%."
		if got != want {
			t.Errorf("Format(%s) = %q, want %q", tt.temp, got, want)
		}
	}
}
