package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Lahore" {
			t.Fatalf("unexpected name param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"name":"Lahore","latitude":31.5497,"longitude":74.3436}]}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	coords, err := r.Geocode(context.Background(), "Lahore")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if coords.Latitude != 31.5497 || coords.Longitude != 74.3436 {
		t.Fatalf("unexpected coords: %+v", coords)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	_, err := r.Geocode(context.Background(), "Atlantis")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	if _, err := r.Geocode(context.Background(), "Lahore"); err == nil {
		t.Fatalf("expected error on server failure")
	}
}

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"name":"Karachi","latitude":24.86,"longitude":67.0}]}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	name, err := r.ReverseGeocode(context.Background(), 24.86, 67.0)
	if err != nil {
		t.Fatalf("ReverseGeocode failed: %v", err)
	}
	if name != "Karachi" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestReverseGeocodeEmptyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	name, err := r.ReverseGeocode(context.Background(), 0, 0)
	if err != nil || name != "" {
		t.Fatalf("expected empty name without error, got %q %v", name, err)
	}
}

func TestCurrentWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"current":{"temperature_2m":33.4}}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	info, err := r.CurrentWeather(context.Background(), 31.5, 74.3)
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}
	if info != "Current temperature: 33.4°C" {
		t.Fatalf("unexpected weather line: %q", info)
	}
}

func TestCurrentWeatherMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"current":{}}`)
	}))
	defer server.Close()

	r := New(server.URL, server.URL, time.Second)
	info, err := r.CurrentWeather(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}
	if info != "Weather data unavailable for these coordinates." {
		t.Fatalf("unexpected fallback: %q", info)
	}
}
