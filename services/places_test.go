package services

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"trip-planner-server/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestFormatPlacePriceLevel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"prefixed enum", `"PRICE_LEVEL_MODERATE"`, intPtr(2)},
		{"bare enum", `"MODERATE"`, intPtr(2)},
		{"free is a real tier", `"PRICE_LEVEL_FREE"`, intPtr(0)},
		{"numeric passthrough", `3`, intPtr(3)},
		{"unknown enum", `"PRICE_LEVEL_UNSPECIFIED"`, nil},
		{"absent", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			place := rawPlace{PriceLevel: json.RawMessage(tt.raw)}
			got := FormatPlace(place).PriceLevel
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("PriceLevel = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("PriceLevel = nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("PriceLevel = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestFormatPlaceOpenNow(t *testing.T) {
	var place rawPlace
	if err := json.Unmarshal([]byte(`{
		"id": "p1",
		"displayName": {"text": "Cafe"},
		"rating": 4.2,
		"userRatingCount": 120,
		"regularOpeningHours": {"openNow": true}
	}`), &place); err != nil {
		t.Fatal(err)
	}

	candidate := FormatPlace(place)
	if candidate.OpenNow == nil || !*candidate.OpenNow {
		t.Errorf("OpenNow = %v, want true", candidate.OpenNow)
	}

	// hours block absent entirely: unknown, not closed
	candidate = FormatPlace(rawPlace{})
	if candidate.OpenNow != nil {
		t.Errorf("OpenNow = %v, want nil when hours are absent", *candidate.OpenNow)
	}
}

func TestFilterByRating(t *testing.T) {
	candidates := []Candidate{
		{Name: "low", Rating: 2.9},
		{Name: "boundary", Rating: 3.0},
		{Name: "high", Rating: 4.5},
		{Name: "unrated"},
	}

	kept := FilterByRating(candidates, 3.0)
	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(kept))
	}
	if kept[0].Name != "boundary" || kept[1].Name != "high" {
		t.Errorf("kept = [%s, %s], order not preserved", kept[0].Name, kept[1].Name)
	}
}

func TestSearchBase(t *testing.T) {
	withCoords := func(lat, lng float64) models.Schedule {
		return models.Schedule{Lat: floatPtr(lat), Lng: floatPtr(lng)}
	}
	noCoords := models.Schedule{}

	t.Run("last day entry with coordinates wins", func(t *testing.T) {
		day := []models.Schedule{withCoords(1, 1), withCoords(2, 2), noCoords}
		lat, lng := SearchBase(day, []models.Schedule{withCoords(9, 9)})
		if lat != 2 || lng != 2 {
			t.Errorf("base = (%v, %v), want (2, 2)", lat, lng)
		}
	})

	t.Run("falls back to trip entries", func(t *testing.T) {
		lat, lng := SearchBase([]models.Schedule{noCoords}, []models.Schedule{withCoords(5, 6)})
		if lat != 5 || lng != 6 {
			t.Errorf("base = (%v, %v), want (5, 6)", lat, lng)
		}
	})

	t.Run("falls back to default point", func(t *testing.T) {
		lat, lng := SearchBase(nil, nil)
		if lat != DefaultBaseLat || lng != DefaultBaseLng {
			t.Errorf("base = (%v, %v), want default", lat, lng)
		}
	})
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(37.5665, 126.9780, 3000)

	if box.North <= 37.5665 || box.South >= 37.5665 {
		t.Errorf("box does not straddle the center latitude: %+v", box)
	}
	if box.East <= 126.9780 || box.West >= 126.9780 {
		t.Errorf("box does not straddle the center longitude: %+v", box)
	}

	// 3km is roughly 0.027 degrees of latitude
	halfLat := (box.North - box.South) / 2
	if math.Abs(halfLat-0.02695) > 0.001 {
		t.Errorf("latitude half-span = %v, want ~0.027", halfLat)
	}

	// the longitude span widens away from the equator
	halfLng := (box.East - box.West) / 2
	if halfLng <= halfLat {
		t.Errorf("longitude half-span %v should exceed latitude half-span %v at 37.5N", halfLng, halfLat)
	}
}

func TestGooglePlacesClientSearchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/places:searchText" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("X-Goog-FieldMask") == "" {
			t.Errorf("missing field mask header")
		}

		var body struct {
			TextQuery           string `json:"textQuery"`
			MaxResultCount      int    `json:"maxResultCount"`
			LocationRestriction struct {
				Rectangle struct {
					Low  map[string]float64 `json:"low"`
					High map[string]float64 `json:"high"`
				} `json:"rectangle"`
			} `json:"locationRestriction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.TextQuery != "한식 아늑한" {
			t.Errorf("textQuery = %q", body.TextQuery)
		}
		if body.MaxResultCount != 15 {
			t.Errorf("maxResultCount = %d", body.MaxResultCount)
		}
		if body.LocationRestriction.Rectangle.Low["latitude"] >= body.LocationRestriction.Rectangle.High["latitude"] {
			t.Errorf("rectangle low/high inverted")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"places": [
			{"id": "p1", "displayName": {"text": "식당"}, "rating": 4.1, "userRatingCount": 88,
			 "priceLevel": "PRICE_LEVEL_INEXPENSIVE",
			 "location": {"latitude": 37.56, "longitude": 126.97}},
			{"id": "p2", "displayName": {"text": "다른 식당"}, "rating": 3.4, "userRatingCount": 12}
		]}`))
	}))
	defer server.Close()

	client := &GooglePlacesClient{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	}

	box := BoxAround(37.5665, 126.9780, 3000)
	candidates, err := client.SearchText("한식 아늑한", box, 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].PlaceID != "p1" || candidates[0].Name != "식당" {
		t.Errorf("first candidate = %+v", candidates[0])
	}
	if candidates[0].PriceLevel == nil || *candidates[0].PriceLevel != 1 {
		t.Errorf("PriceLevel = %v, want 1", candidates[0].PriceLevel)
	}
	if candidates[1].PriceLevel != nil {
		t.Errorf("second candidate PriceLevel = %v, want nil", *candidates[1].PriceLevel)
	}
}

func TestGooglePlacesClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := &GooglePlacesClient{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()}
	if _, err := client.SearchText("q", BoundingBox{}, 5); err == nil {
		t.Fatal("expected an error on non-2xx status")
	}
}
