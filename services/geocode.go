package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

var ErrAddressNotFound = errors.New("address could not be geocoded")

// GeocodeClient resolves a free-text address to coordinates for manual
// schedule entry.
type GeocodeClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewGeocodeClient() *GeocodeClient {
	return &GeocodeClient{
		APIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		BaseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *GeocodeClient) Resolve(address string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s?address=%s&key=%s", c.BaseURL, url.QueryEscape(address), url.QueryEscape(c.APIKey))

	resp, err := c.HTTPClient.Get(endpoint)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, 0, err
	}

	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	location := parsed.Results[0].Geometry.Location
	return location.Lat, location.Lng, nil
}
