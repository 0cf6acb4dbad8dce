// Package weather fetches current conditions from an OpenWeatherMap-style
// provider so the frontend does not need its own provider key.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/krishiguru/apiserver/config"
	"github.com/krishiguru/apiserver/types"
)

const defaultTimeout = 10 * time.Second

// ErrNoAPIKey indicates the weather provider is not configured.
var ErrNoAPIKey = errors.New("weather provider API key not configured")

// ErrProvider wraps any failure of the upstream weather call.
var ErrProvider = errors.New("weather provider error")

// Client calls the current-weather endpoint of the configured provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type currentWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current returns the current weather snapshot for a free-text location.
func (c *Client) Current(ctx context.Context, location string) (types.WeatherSnapshot, error) {
	if !c.Configured() {
		return types.WeatherSnapshot{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.WeatherSnapshot{}, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, body)
	}

	var current currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return types.WeatherSnapshot{}, fmt.Errorf("%w: parse response: %v", ErrProvider, err)
	}

	condition := ""
	if len(current.Weather) > 0 {
		condition = current.Weather[0].Description
		if condition == "" {
			condition = current.Weather[0].Main
		}
	}

	return types.WeatherSnapshot{
		Temperature: current.Main.Temp,
		Humidity:    current.Main.Humidity,
		WindSpeed:   current.Wind.Speed,
		Condition:   condition,
		Rainfall:    current.Rain.OneHour,
	}, nil
}
