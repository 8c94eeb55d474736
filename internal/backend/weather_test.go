package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Paris" || q.Get("appid") != "owm-key" || q.Get("units") != "metric" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Write([]byte(`{"weather":[{"description":"clear sky"}],"main":{"temp":18.2,"humidity":60}}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, "owm-key", Deps{})
	report, err := c.Current(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	want := Report{Location: "Paris", Description: "clear sky", Temperature: "18.2", Humidity: 60}
	if report != want {
		t.Errorf("report = %+v, want %+v", report, want)
	}
}

func TestWeatherCurrentErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unknown city", http.StatusNotFound, `{"cod":"404","message":"city not found"}`, ErrNotFound},
		{"bad key", http.StatusUnauthorized, `{"cod":401}`, ErrTransport},
		{"missing main", http.StatusOK, `{"weather":[{"description":"rain"}]}`, ErrTransport},
		{"missing weather", http.StatusOK, `{"main":{"temp":1,"humidity":2}}`, ErrTransport},
		{"garbage", http.StatusOK, `not json`, ErrTransport},
		{"non-numeric temp", http.StatusOK, `{"weather":[{"description":"rain"}],"main":{"temp":"warm","humidity":2}}`, ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewWeatherClient(srv.URL, "k", Deps{}).Current(context.Background(), "Atlantis")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWeatherTemperatureKeepsProviderText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[{"description":"haze"}],"main":{"temp":20.0,"humidity":40}}`))
	}))
	defer srv.Close()

	report, err := NewWeatherClient(srv.URL, "k", Deps{}).Current(context.Background(), "Cairo")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if report.Temperature.String() != "20.0" {
		t.Errorf("temperature = %q, want %q", report.Temperature, "20.0")
	}
}

func TestWeatherZeroValuesArePresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[{"description":"snow"}],"main":{"temp":0,"humidity":0}}`))
	}))
	defer srv.Close()

	report, err := NewWeatherClient(srv.URL, "k", Deps{}).Current(context.Background(), "Nuuk")
	if err != nil {
		t.Fatalf("zero readings should be accepted, got %v", err)
	}
	if report.Temperature != "0" || report.Humidity != 0 {
		t.Errorf("report = %+v", report)
	}
}
