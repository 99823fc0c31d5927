package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"trip-planner-server/models"

	"golang.org/x/exp/slices"
)

var ErrEmptyCompletion = errors.New("generator returned no completion")

// GeneratorClient asks an LLM for a full day-partitioned itinerary at trip
// creation time. The output is treated as just another source of Schedule
// rows; display order is assigned by arrival sequence per day.
type GeneratorClient struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

func NewGeneratorClient() *GeneratorClient {
	return &GeneratorClient{
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o",
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
	}
}

type generatedActivity struct {
	Time        string  `json:"time"`
	TimeEnd     string  `json:"time_end"`
	Activity    string  `json:"activity"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type generatedPlan struct {
	Schedule []struct {
		Day        int                 `json:"day"`
		Activities []generatedActivity `json:"activities"`
	} `json:"schedule"`
}

// GenerateItinerary produces unsaved Schedule rows for every day of the
// trip. Days the model references that don't exist on the trip are skipped.
func (c *GeneratorClient) GenerateItinerary(trip models.Trip) ([]models.Schedule, error) {
	content, err := c.complete(buildPrompt(trip))
	if err != nil {
		return nil, err
	}

	var plan generatedPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("generator returned invalid JSON: %w", err)
	}

	return planToSchedules(trip, plan), nil
}

// planToSchedules maps the generated plan onto the trip's persisted days.
// Each day's activities get display orders 0,1,2... in arrival sequence, so
// downstream ordering logic sees them like any manually added entries.
func planToSchedules(trip models.Trip, plan generatedPlan) []models.Schedule {
	var rows []models.Schedule
	for _, dayPlan := range plan.Schedule {
		var target *models.Day
		for i := range trip.Days {
			if trip.Days[i].DayNumber == dayPlan.Day {
				target = &trip.Days[i]
				break
			}
		}
		if target == nil {
			continue
		}

		for order, act := range dayPlan.Activities {
			icon := act.Category
			if !slices.Contains(models.IconKeys, icon) {
				icon = "star"
			}
			lat, lng := act.Lat, act.Lng
			rows = append(rows, models.Schedule{
				DayID:         target.ID,
				Time:          act.Time,
				TimeEnd:       act.TimeEnd,
				Activity:      act.Activity,
				Description:   act.Description,
				Icon:          icon,
				Lat:           &lat,
				Lng:           &lng,
				DisplayOrder:  order,
				IsAiGenerated: true,
				Status:        "PLANNED",
			})
		}
	}
	return rows
}

func buildPrompt(trip models.Trip) string {
	pref := trip.Preference
	if pref == nil {
		pref = &models.TripPreference{}
	}

	var interests []string
	if len(pref.Interests) > 0 {
		json.Unmarshal(pref.Interests, &interests)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional travel planner. Build a detailed itinerary as JSON.\n\n")
	fmt.Fprintf(&b, "[Trip]\n- City: %s (%s)\n- Dates: %s ~ %s\n- Theme: %s\n\n",
		trip.Location, trip.Country, trip.StartDate, trip.EndDate, trip.Theme)

	b.WriteString("[Flights]\n")
	if pref.FlightOutArr != "" {
		fmt.Fprintf(&b, "- Day 1 arrival at %s: schedule nothing before it and add a 'plane' entry for it.\n", pref.FlightOutArr)
	}
	if pref.FlightInDept != "" {
		fmt.Fprintf(&b, "- Last day departure at %s: schedule nothing after it and add a 'plane' entry for it.\n", pref.FlightInDept)
	}

	fmt.Fprintf(&b, "\n[Traveler]\n- Companion: %s\n- Pace: %s\n- Accommodation: %s\n- Interests: %s\n\n",
		pref.CompanionType, pref.PacePreference, pref.AccommodationType, strings.Join(interests, ", "))

	b.WriteString(`[Rules]
1. Plan morning, lunch, afternoon and evening for every day with concrete place names.
2. Keep routes efficient between consecutive places.
3. Always include approximate lat/lng for every place.
4. category must be one of: plane, hotel, food, coffee, shopping, nature, car, star, heart.
5. Respond with pure JSON only, no markdown, in this exact shape:
{"schedule":[{"day":1,"activities":[{"time":"HH:MM","time_end":"HH:MM","activity":"...","description":"...","category":"food","lat":35.0,"lng":139.0}]}]}
`)

	return b.String()
}

func (c *GeneratorClient) complete(prompt string) (string, error) {
	body := map[string]interface{}{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a helpful travel assistant. Output JSON only."},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, nil
}
