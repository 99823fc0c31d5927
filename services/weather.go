package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"
	"trip-planner-server/storage"
)

const weatherCacheTTL = time.Hour

// WeatherClient fetches per-day forecasts from the Visual Crossing timeline
// API. Responses are cached in Redis for an hour; weather for a fixed date
// range doesn't change faster than that.
type WeatherClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewWeatherClient() *WeatherClient {
	return &WeatherClient{
		APIKey:     os.Getenv("WEATHER_API_KEY"),
		BaseURL:    "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns forecasts keyed by YYYY-MM-DD for the inclusive date range.
// A missing API key yields nil, not an error — weather is decoration, the
// itinerary renders without it.
func (c *WeatherClient) Fetch(lat, lng float64, startDate, endDate string) (map[string]WeatherInfo, error) {
	if c.APIKey == "" {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("weather:%.4f,%.4f:%s:%s", lat, lng, startDate, endDate)
	if cached := readWeatherCache(cacheKey); cached != nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/%f,%f/%s/%s?unitGroup=metric&include=days&key=%s&contentType=json",
		c.BaseURL, lat, lng, startDate, endDate, url.QueryEscape(c.APIKey))

	resp, err := c.HTTPClient.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather status %d", resp.StatusCode)
	}

	var parsed struct {
		Days []struct {
			Datetime   string  `json:"datetime"`
			TempMax    float64 `json:"tempmax"`
			TempMin    float64 `json:"tempmin"`
			Icon       string  `json:"icon"`
			Conditions string  `json:"conditions"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	weather := make(map[string]WeatherInfo, len(parsed.Days))
	for _, day := range parsed.Days {
		weather[day.Datetime] = WeatherInfo{
			TempMax: int(math.Round(day.TempMax)),
			TempMin: int(math.Round(day.TempMin)),
			Icon:    day.Icon,
			Desc:    day.Conditions,
		}
	}

	writeWeatherCache(cacheKey, weather)
	return weather, nil
}

func readWeatherCache(key string) map[string]WeatherInfo {
	if storage.Redis == nil {
		return nil
	}
	raw, err := storage.Redis.Get(context.Background(), key).Result()
	if err != nil {
		return nil
	}
	var weather map[string]WeatherInfo
	if err := json.Unmarshal([]byte(raw), &weather); err != nil {
		return nil
	}
	return weather
}

func writeWeatherCache(key string, weather map[string]WeatherInfo) {
	if storage.Redis == nil {
		return
	}
	raw, err := json.Marshal(weather)
	if err != nil {
		return
	}
	if err := storage.Redis.Set(context.Background(), key, raw, weatherCacheTTL).Err(); err != nil {
		log.Printf("weather cache write failed: %v", err)
	}
}
