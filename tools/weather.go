package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

const defaultWeatherEndpoint = "https://api.open-meteo.com/v1/forecast"

// Weather fetches the current conditions for a coordinate pair from the
// Open-Meteo API.
type Weather struct {
	endpoint string
	client   *http.Client
}

// WeatherOption configures the weather tool.
type WeatherOption func(*Weather)

// WithWeatherEndpoint overrides the forecast API endpoint.
func WithWeatherEndpoint(endpoint string) WeatherOption {
	return func(w *Weather) {
		w.endpoint = endpoint
	}
}

// WithWeatherHTTPClient overrides the HTTP client.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(w *Weather) {
		w.client = client
	}
}

// NewWeather creates a weather tool.
func NewWeather(options ...WeatherOption) *Weather {
	w := &Weather{
		endpoint: defaultWeatherEndpoint,
		client:   http.DefaultClient,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (t *Weather) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "WEATHER",
		Description: "Fetches forecast",
	}
}

func (t *Weather) Run(ctx context.Context, params map[string]any) (string, error) {
	lat, latErr := numberParam(params, "lat")
	lng, lngErr := numberParam(params, "lng")
	if latErr != nil || lngErr != nil {
		return "GPS Data required for atmospheric scan.", nil
	}

	url := fmt.Sprintf("%s?latitude=%g&longitude=%g&current_weather=true", t.endpoint, lat, lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build forecast request")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "forecast request failed")
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather *struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", goerr.Wrap(err, "failed to decode forecast response")
	}
	if payload.CurrentWeather == nil {
		return "Weather data unavailable.", nil
	}

	w := payload.CurrentWeather
	return fmt.Sprintf("Temperature: %g°C, Wind: %gkm/h, Code: %d", w.Temperature, w.WindSpeed, w.WeatherCode), nil
}
