package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"trip-planner-server/models"
)

// Step is the current screen of one recommendation session.
type Step string

const (
	StepInput   Step = "input"
	StepLoading Step = "loading"
	StepSwipe   Step = "swipe"
	StepResult  Step = "result"
)

// Tags are the taste inputs collected on the input step. Type is the primary
// category and is required before a search; the rest only refine the query.
type Tags struct {
	Who     string `json:"who"`
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Mood    string `json:"mood"`
}

var (
	ErrTypeRequired = errors.New("primary category tag is required")
	ErrNoResults    = errors.New("no candidates matched the search")
	ErrStaleSearch  = errors.New("search superseded by a newer one")
	ErrNoCandidate  = errors.New("no candidate at the current index")
	ErrNotLiked     = errors.New("no liked candidate in the session")
)

const minRating = 3.0

// Fewer narrow hits than this triggers the broadened retry.
const broadenThreshold = 3

// Session is the ephemeral state of one open recommendation interaction.
// It lives for a single modal invocation and is discarded on close or save.
type Session struct {
	ID     string `json:"id"`
	TripID uint   `json:"tripID"`
	DayID  uint   `json:"dayID"`

	Step         Step        `json:"step"`
	Tags         Tags        `json:"tags"`
	Candidates   []Candidate `json:"candidates"`
	Index        int         `json:"index"`
	Liked        *Candidate  `json:"liked"`
	SelectedTime string      `json:"selectedTime"`
	BaseLat      float64     `json:"baseLat"`
	BaseLng      float64     `json:"baseLng"`

	searcher PlaceSearcher

	mu        sync.Mutex
	searchSeq int
}

func NewSession(id string, tripID, dayID uint, baseLat, baseLng float64, searcher PlaceSearcher) *Session {
	return &Session{
		ID:      id,
		TripID:  tripID,
		DayID:   dayID,
		Step:    StepInput,
		BaseLat: baseLat,
		BaseLng: baseLng,

		searcher: searcher,
	}
}

// queryText builds "{subtype|type|맛집} {mood} {who}"; empty tags simply
// contribute nothing.
func queryText(tags Tags, broad bool) string {
	core := tags.Subtype
	if core == "" {
		core = tags.Type
	}
	if core == "" {
		core = "맛집"
	}
	if broad {
		return core
	}
	return strings.TrimSpace(strings.Join([]string{core, tags.Mood, tags.Who}, " "))
}

// Search runs the input -> loading -> swipe transition. On an empty filtered
// result set or a search failure the session drops back to input and the
// error is recoverable: the user retries with different tags.
//
// Each search takes a sequence token; if another search was issued while this
// one was in flight, its late results are discarded instead of clobbering
// the newer candidate list.
func (s *Session) Search(tags Tags) error {
	if tags.Type == "" {
		return ErrTypeRequired
	}

	s.mu.Lock()
	s.Tags = tags
	s.Step = StepLoading
	s.searchSeq++
	seq := s.searchSeq
	s.mu.Unlock()

	box := BoxAround(s.BaseLat, s.BaseLng, searchRadiusMeters)

	candidates, err := s.searcher.SearchText(queryText(tags, false), box, 15)
	if err == nil && len(candidates) < broadenThreshold {
		// relax the query to the core keyword only; prefer the broadened
		// set whenever it returned anything at all
		broadened, broadErr := s.searcher.SearchText(queryText(tags, true), box, 15)
		if broadErr == nil && len(broadened) > 0 {
			candidates = broadened
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.searchSeq {
		return ErrStaleSearch
	}

	if err != nil {
		s.Step = StepInput
		return err
	}

	filtered := FilterByRating(candidates, minRating)
	if len(filtered) == 0 {
		s.Step = StepInput
		return ErrNoResults
	}

	s.Candidates = filtered
	s.Index = 0
	s.Step = StepSwipe
	return nil
}

// Current returns the candidate under the swipe cursor, or nil when the deck
// is exhausted.
func (s *Session) Current() *Candidate {
	if s.Index < 0 || s.Index >= len(s.Candidates) {
		return nil
	}
	return &s.Candidates[s.Index]
}

// Vote records a swipe decision. A reject advances the cursor and persists
// nothing. A like captures the current candidate, derives the proposed time
// from the day's existing entries and moves to the result step; the time
// stays editable until save.
func (s *Session) Vote(like bool, dayEntries []models.Schedule) error {
	if s.Step != StepSwipe {
		return fmt.Errorf("vote in step %q", s.Step)
	}

	if !like {
		s.Index++
		return nil
	}

	candidate := s.Current()
	if candidate == nil {
		return ErrNoCandidate
	}

	s.Liked = candidate
	s.SelectedTime = NextSlotTime(dayEntries)
	s.Step = StepResult
	return nil
}

// Retry discards the liked candidate and returns to the swipe deck at the
// position the user left it.
func (s *Session) Retry() {
	if s.Step != StepResult {
		return
	}
	s.Liked = nil
	s.Step = StepSwipe
}

// BuildSchedule converts the liked candidate into the Schedule row to append
// at the end of the day's current order. selectedTime overrides the derived
// session time when the user edited it before saving.
func (s *Session) BuildSchedule(selectedTime string, dayEntries []models.Schedule) (models.Schedule, error) {
	if s.Step != StepResult || s.Liked == nil {
		return models.Schedule{}, ErrNotLiked
	}

	if selectedTime == "" {
		selectedTime = s.SelectedTime
	}

	lat := s.Liked.Lat
	lng := s.Liked.Lng

	return models.Schedule{
		DayID:         s.DayID,
		Time:          selectedTime,
		Activity:      s.Liked.Name,
		Description:   "[AI 추천]",
		Icon:          IconForCategory(s.Tags.Type),
		Tips:          fmt.Sprintf("평점 %.1f / 리뷰 %d", s.Liked.Rating, s.Liked.ReviewCount),
		Lat:           &lat,
		Lng:           &lng,
		DisplayOrder:  NextDisplayOrder(dayEntries),
		IsAiGenerated: true,
	}, nil
}

// IconForCategory maps the primary category tag the user picked to a card
// icon. There is no dedicated bar icon, so bars land on food.
func IconForCategory(category string) string {
	switch category {
	case "식사": // meal
		return "food"
	case "카페": // cafe
		return "coffee"
	case "술집": // bar
		return "food"
	case "명소": // landmark
		return "star"
	default:
		return "food"
	}
}

// Subtypes returns the subcategory options offered for a primary category.
func Subtypes(category string) []string {
	switch category {
	case "식사":
		return []string{"한식", "양식", "일식", "중식", "아시안", "로컬맛집"}
	case "술집":
		return []string{"이자카야", "와인", "칵테일", "맥주"}
	case "명소":
		return []string{"공원", "박물관", "쇼핑", "야경"}
	default:
		return []string{}
	}
}
