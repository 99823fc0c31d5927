package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWeatherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "unitGroup=metric") {
			t.Errorf("query = %q, want metric units", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"days": [
			{"datetime": "2024-01-01", "tempmax": 8.6, "tempmin": -1.4, "icon": "snow", "conditions": "Snow"},
			{"datetime": "2024-01-02", "tempmax": 3.2, "tempmin": 0.5, "icon": "cloudy", "conditions": "Overcast"}
		]}`))
	}))
	defer server.Close()

	client := &WeatherClient{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	}

	weather, err := client.Fetch(37.5665, 126.9780, "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(weather) != 2 {
		t.Fatalf("got %d days, want 2", len(weather))
	}

	first := weather["2024-01-01"]
	if first.TempMax != 9 || first.TempMin != -1 {
		t.Errorf("temps rounded to %d/%d, want 9/-1", first.TempMax, first.TempMin)
	}
	if first.Icon != "snow" || first.Desc != "Snow" {
		t.Errorf("first day = %+v", first)
	}
}

func TestWeatherFetchWithoutKey(t *testing.T) {
	client := &WeatherClient{APIKey: ""}

	weather, err := client.Fetch(0, 0, "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatalf("missing key must be silent, got %v", err)
	}
	if weather != nil {
		t.Errorf("weather = %v, want nil without a key", weather)
	}
}

func TestWeatherFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &WeatherClient{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()}
	if _, err := client.Fetch(0, 0, "2024-01-01", "2024-01-01"); err == nil {
		t.Fatal("expected an error on non-2xx status")
	}
}
