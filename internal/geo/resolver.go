// Package geo wraps the open-meteo geocoding and weather endpoints behind
// best-effort lookups.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when a city cannot be geocoded.
var ErrNotFound = errors.New("geo: no results")

// Coords is a geographic coordinate pair.
type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolver is the forward/reverse geocoding and weather client.
type Resolver struct {
	geocodingURL string
	weatherURL   string
	httpClient   *http.Client
}

// New creates a resolver. Base URLs carry no trailing slash, e.g.
// "https://geocoding-api.open-meteo.com/v1".
func New(geocodingURL, weatherURL string, timeout time.Duration) *Resolver {
	return &Resolver{
		geocodingURL: geocodingURL,
		weatherURL:   weatherURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type geoResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type geoResponse struct {
	Results []geoResult `json:"results"`
}

func (r *Resolver) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Geocode resolves a city name to coordinates using the first search result.
func (r *Resolver) Geocode(ctx context.Context, city string) (Coords, error) {
	u := fmt.Sprintf("%s/search?name=%s&count=1", r.geocodingURL, url.QueryEscape(city))
	var body geoResponse
	if err := r.get(ctx, u, &body); err != nil {
		return Coords{}, fmt.Errorf("geocoding %q: %w", city, err)
	}
	if len(body.Results) == 0 {
		return Coords{}, ErrNotFound
	}
	return Coords{Latitude: body.Results[0].Latitude, Longitude: body.Results[0].Longitude}, nil
}

// ReverseGeocode resolves coordinates to a place name. Failures are
// non-critical; callers treat an empty name as "unknown".
func (r *Resolver) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	u := fmt.Sprintf("%s/reverse?latitude=%g&longitude=%g&count=1", r.geocodingURL, lat, lon)
	var body geoResponse
	if err := r.get(ctx, u, &body); err != nil {
		return "", err
	}
	if len(body.Results) == 0 {
		return "", nil
	}
	return body.Results[0].Name, nil
}

type weatherResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
	} `json:"current"`
}

// CurrentWeather returns a one-line description of the current temperature
// at the given coordinates.
func (r *Resolver) CurrentWeather(ctx context.Context, lat, lon float64) (string, error) {
	u := fmt.Sprintf("%s/forecast?latitude=%g&longitude=%g&current=temperature_2m,wind_speed_10m", r.weatherURL, lat, lon)
	var body weatherResponse
	if err := r.get(ctx, u, &body); err != nil {
		return "", fmt.Errorf("weather lookup: %w", err)
	}
	if body.Current.Temperature == nil {
		return "Weather data unavailable for these coordinates.", nil
	}
	return fmt.Sprintf("Current temperature: %.1f°C", *body.Current.Temperature), nil
}
