package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
	"trip-planner-server/models"
)

// Fallback search base when neither the day nor the trip has any entry with
// coordinates yet (Seoul city hall, same default the clients ship with).
const (
	DefaultBaseLat = 37.5665
	DefaultBaseLng = 126.9780
)

const searchRadiusMeters = 3000

// Candidate is an ephemeral place record produced by search. It is never
// stored: it is either swiped away or converted into a Schedule on save.
type Candidate struct {
	PlaceID     string   `json:"placeID"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	PriceLevel  *int     `json:"priceLevel"` // 0..4, nil when the place reports none (0 means free, not unknown)
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Types       []string `json:"types"`
	OpenNow     *bool    `json:"openNow"`
	PhotoRefs   []string `json:"photoRefs"`
}

// BoundingBox limits a text search to a rectangle around the search base.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// BoxAround derives the bounding box for a search base point, offsetting the
// radius on the sphere so the box stays roughly square at any latitude.
func BoxAround(lat, lng float64, radiusMeters float64) BoundingBox {
	r := radiusMeters / 6378137.0
	latRad := lat * math.Pi / 180
	dy := r
	dx := r / math.Cos(latRad)

	return BoundingBox{
		North: lat + dy*180/math.Pi,
		South: lat - dy*180/math.Pi,
		East:  lng + dx*180/math.Pi,
		West:  lng - dx*180/math.Pi,
	}
}

// SearchBase picks the geographic anchor for a recommendation search: the
// last coordinate-bearing entry of the target day, else the most recent
// coordinate anywhere in the trip, else the hardcoded default point.
func SearchBase(dayEntries []models.Schedule, tripEntries []models.Schedule) (float64, float64) {
	for i := len(dayEntries) - 1; i >= 0; i-- {
		if dayEntries[i].Lat != nil && dayEntries[i].Lng != nil {
			return *dayEntries[i].Lat, *dayEntries[i].Lng
		}
	}
	for i := len(tripEntries) - 1; i >= 0; i-- {
		if tripEntries[i].Lat != nil && tripEntries[i].Lng != nil {
			return *tripEntries[i].Lat, *tripEntries[i].Lng
		}
	}
	return DefaultBaseLat, DefaultBaseLng
}

// priceLevels maps the Places price enum to the 0..4 tier. Absent or
// unrecognized levels stay nil — 0 is a real tier ("free"), not a default.
var priceLevels = map[string]int{
	"FREE":           0,
	"INEXPENSIVE":    1,
	"MODERATE":       2,
	"EXPENSIVE":      3,
	"VERY_EXPENSIVE": 4,
}

type rawPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string          `json:"formattedAddress"`
	Rating           float64         `json:"rating"`
	UserRatingCount  int             `json:"userRatingCount"`
	PriceLevel       json.RawMessage `json:"priceLevel"` // string enum or a bare number
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Types               []string `json:"types"`
	RegularOpeningHours *struct {
		OpenNow *bool `json:"openNow"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

// FormatPlace normalizes one raw search result into a Candidate, tolerating
// whatever sub-fields the provider left out.
func FormatPlace(p rawPlace) Candidate {
	candidate := Candidate{
		PlaceID:     p.ID,
		Name:        p.DisplayName.Text,
		Address:     p.FormattedAddress,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		Lat:         p.Location.Latitude,
		Lng:         p.Location.Longitude,
		Types:       p.Types,
	}

	if p.RegularOpeningHours != nil {
		candidate.OpenNow = p.RegularOpeningHours.OpenNow
	}

	for _, photo := range p.Photos {
		candidate.PhotoRefs = append(candidate.PhotoRefs, photo.Name)
	}

	candidate.PriceLevel = parsePriceLevel(p.PriceLevel)
	return candidate
}

func parsePriceLevel(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		// the v1 API prefixes the enum; older payloads don't
		asString = strings.TrimPrefix(asString, "PRICE_LEVEL_")
		if level, ok := priceLevels[asString]; ok {
			return &level
		}
		return nil
	}

	var asNumber int
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return &asNumber
	}

	return nil
}

// FilterByRating drops candidates below the minimum rating. A candidate
// without a rating counts as 0 and is dropped. Order is preserved.
func FilterByRating(candidates []Candidate, minRating float64) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Rating >= minRating {
			kept = append(kept, c)
		}
	}
	return kept
}

// PlaceSearcher is what the recommendation flow needs from a place search
// backend: free-text query, rectangle restriction, capped result count.
type PlaceSearcher interface {
	SearchText(query string, box BoundingBox, maxResults int) ([]Candidate, error)
}

// GooglePlacesClient calls the Places API (New) text search endpoint.
type GooglePlacesClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewGooglePlacesClient() *GooglePlacesClient {
	return &GooglePlacesClient{
		APIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		BaseURL:    "https://places.googleapis.com/v1",
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

const placeFieldMask = "places.id,places.displayName,places.formattedAddress," +
	"places.location,places.photos,places.rating,places.userRatingCount," +
	"places.types,places.priceLevel,places.regularOpeningHours"

func (c *GooglePlacesClient) SearchText(query string, box BoundingBox, maxResults int) ([]Candidate, error) {
	body := map[string]interface{}{
		"textQuery":      query,
		"maxResultCount": maxResults,
		"locationRestriction": map[string]interface{}{
			"rectangle": map[string]interface{}{
				"low":  map[string]float64{"latitude": box.South, "longitude": box.West},
				"high": map[string]float64{"latitude": box.North, "longitude": box.East},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)
	req.Header.Set("X-Goog-FieldMask", placeFieldMask)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("places search status %d", resp.StatusCode)
	}

	var parsed struct {
		Places []rawPlace `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(parsed.Places))
	for _, place := range parsed.Places {
		candidates = append(candidates, FormatPlace(place))
	}
	return candidates, nil
}
