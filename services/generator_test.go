package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-planner-server/models"

	"gorm.io/gorm"
)

func generatorTrip() models.Trip {
	return models.Trip{
		Location:  "Tokyo",
		Country:   "Japan",
		StartDate: "2024-05-01",
		EndDate:   "2024-05-02",
		Days: []models.Day{
			{Model: gorm.Model{ID: 11}, DayNumber: 1, Date: "2024-05-01"},
			{Model: gorm.Model{ID: 12}, DayNumber: 2, Date: "2024-05-02"},
		},
	}
}

func TestGenerateItinerary(t *testing.T) {
	plan := `{"schedule":[
		{"day":1,"activities":[
			{"time":"10:00","activity":"Senso-ji","category":"star","lat":35.71,"lng":139.79},
			{"time":"12:30","activity":"Ramen","category":"food","lat":35.70,"lng":139.78}
		]},
		{"day":2,"activities":[
			{"time":"09:00","activity":"Mystery","category":"spaceship","lat":35.6,"lng":139.7}
		]},
		{"day":9,"activities":[
			{"time":"09:00","activity":"Ghost day","category":"food","lat":0,"lng":0}
		]}
	]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("missing bearer token")
		}

		var body struct {
			Model          string            `json:"model"`
			ResponseFormat map[string]string `json:"response_format"`
			Messages       []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.ResponseFormat["type"] != "json_object" {
			t.Errorf("response_format = %v, want json_object", body.ResponseFormat)
		}
		if len(body.Messages) != 2 || !strings.Contains(body.Messages[1].Content, "Tokyo") {
			t.Errorf("prompt does not carry the trip city")
		}

		reply := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": plan}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}))
	defer server.Close()

	client := &GeneratorClient{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "gpt-4o",
		HTTPClient: server.Client(),
	}

	rows, err := client.GenerateItinerary(generatorTrip())
	if err != nil {
		t.Fatal(err)
	}

	// day 9 has no Day row and is skipped
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].DayID != 11 || rows[1].DayID != 11 || rows[2].DayID != 12 {
		t.Errorf("rows landed on days %d/%d/%d, want 11/11/12", rows[0].DayID, rows[1].DayID, rows[2].DayID)
	}
	if rows[0].DisplayOrder != 0 || rows[1].DisplayOrder != 1 || rows[2].DisplayOrder != 0 {
		t.Errorf("display orders %d/%d/%d, want arrival sequence per day",
			rows[0].DisplayOrder, rows[1].DisplayOrder, rows[2].DisplayOrder)
	}

	// unknown category falls back to the neutral icon
	if rows[2].Icon != "star" {
		t.Errorf("unknown category icon = %q, want star", rows[2].Icon)
	}
	if rows[0].Icon != "star" || rows[1].Icon != "food" {
		t.Errorf("icons = %q/%q", rows[0].Icon, rows[1].Icon)
	}

	for i, row := range rows {
		if !row.IsAiGenerated {
			t.Errorf("row %d not flagged as generated", i)
		}
		if row.Lat == nil || row.Lng == nil {
			t.Errorf("row %d missing coordinates", i)
		}
	}
}

func TestGenerateItineraryInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "sorry, no"}}]}`))
	}))
	defer server.Close()

	client := &GeneratorClient{APIKey: "k", BaseURL: server.URL, Model: "gpt-4o", HTTPClient: server.Client()}
	if _, err := client.GenerateItinerary(generatorTrip()); err == nil {
		t.Fatal("expected an error for a non-JSON completion")
	}
}

func TestGenerateItineraryEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := &GeneratorClient{APIKey: "k", BaseURL: server.URL, Model: "gpt-4o", HTTPClient: server.Client()}
	if _, err := client.GenerateItinerary(generatorTrip()); err != ErrEmptyCompletion {
		t.Fatalf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestBuildPromptFlights(t *testing.T) {
	trip := generatorTrip()
	trip.Preference = &models.TripPreference{
		FlightOutArr: "11:40",
		FlightInDept: "19:20",
	}

	prompt := buildPrompt(trip)
	if !strings.Contains(prompt, "11:40") || !strings.Contains(prompt, "19:20") {
		t.Errorf("flight times missing from prompt")
	}

	trip.Preference = nil
	prompt = buildPrompt(trip)
	if !strings.Contains(prompt, "Tokyo") {
		t.Errorf("nil preference must not drop trip facts from the prompt")
	}
}
