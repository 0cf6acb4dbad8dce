package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishiguru/apiserver/config"
)

func TestCurrentParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Delhi, India" {
			t.Errorf("unexpected location query: %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("unexpected units: %q", got)
		}
		w.Write([]byte(`{
			"main": {"temp": 35.2, "humidity": 80},
			"wind": {"speed": 5.5},
			"weather": [{"main": "Clear", "description": "clear sky"}],
			"rain": {"1h": 0.4}
		}`))
	}))
	defer server.Close()

	client := NewClient(config.WeatherConfig{APIKey: "k", BaseURL: server.URL})
	snap, err := client.Current(context.Background(), "Delhi, India")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if snap.Temperature != 35.2 || snap.Humidity != 80 || snap.WindSpeed != 5.5 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Condition != "clear sky" {
		t.Errorf("unexpected condition: %q", snap.Condition)
	}
	if snap.Rainfall != 0.4 {
		t.Errorf("unexpected rainfall: %v", snap.Rainfall)
	}
}

func TestCurrentWithoutAPIKey(t *testing.T) {
	client := NewClient(config.WeatherConfig{})
	if _, err := client.Current(context.Background(), "Delhi"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestCurrentProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "city not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(config.WeatherConfig{APIKey: "k", BaseURL: server.URL})
	if _, err := client.Current(context.Background(), "Nowhere"); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
