package routes

import (
	"errors"
	"sync"
	"trip-planner-server/models"
	"trip-planner-server/services"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// Open recommendation sessions, keyed by session token. Sessions are
// ephemeral by design: a server restart simply closes every open modal.
var (
	sessionsMu sync.Mutex
	sessions   = map[string]*services.Session{}
)

// StartRecommendation opens a session for one day of a trip and reports the
// search base point so the client can center its map on it.
func StartRecommendation(ctx iris.Context) {
	var input struct {
		TripID uint `json:"tripID" validate:"required"`
		DayID  uint `json:"dayID" validate:"required"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	day, trip := getOwnedDayByID(input.DayID, ctx)
	if day == nil {
		return
	}
	if trip.ID != input.TripID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Day does not belong to the trip.", ctx)
		return
	}

	dayEntries, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}
	tripEntries, ok := loadTripEntries(trip.ID, ctx)
	if !ok {
		return
	}

	baseLat, baseLng := services.SearchBase(dayEntries, tripEntries)

	id := utils.GenerateShortToken(16)
	session := services.NewSession(id, trip.ID, day.ID, baseLat, baseLng, NewPlaces())

	sessionsMu.Lock()
	sessions[id] = session
	sessionsMu.Unlock()

	ctx.JSON(iris.Map{
		"sessionID": id,
		"step":      session.Step,
		"baseLat":   baseLat,
		"baseLng":   baseLng,
	})
}

// SearchRecommendation runs the input -> swipe transition for a session.
// Empty results and search failures both return the session to the input
// step; the client shows a recoverable notice, not a fatal error.
func SearchRecommendation(ctx iris.Context) {
	session := getSession(ctx)
	if session == nil {
		return
	}

	var tags services.Tags
	if err := ctx.ReadJSON(&tags); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	err := session.Search(tags)
	switch {
	case errors.Is(err, services.ErrTypeRequired):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Pick a category before searching.", ctx)
		return
	case errors.Is(err, services.ErrNoResults):
		ctx.JSON(iris.Map{"step": session.Step, "message": "no results"})
		return
	case errors.Is(err, services.ErrStaleSearch):
		// a newer search already owns the session; nothing to report
		ctx.JSON(iris.Map{"step": session.Step, "superseded": true})
		return
	case err != nil:
		ctx.JSON(iris.Map{"step": session.Step, "message": "search failed"})
		return
	}

	ctx.JSON(iris.Map{
		"step":       session.Step,
		"candidates": session.Candidates,
		"index":      session.Index,
	})
}

// VoteRecommendation records a swipe. A like moves the session to the result
// step with the proposed time already derived from the day's entries.
func VoteRecommendation(ctx iris.Context) {
	session := getSession(ctx)
	if session == nil {
		return
	}

	var input struct {
		Like bool `json:"like"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	dayEntries, ok := loadDayEntries(session.DayID, ctx)
	if !ok {
		return
	}

	if err := session.Vote(input.Like, dayEntries); err != nil {
		utils.CreateError(iris.StatusConflict, "Vote Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{
		"step":         session.Step,
		"index":        session.Index,
		"current":      session.Current(),
		"liked":        session.Liked,
		"selectedTime": session.SelectedTime,
	})
}

// RetryRecommendation drops the liked candidate and resumes swiping.
func RetryRecommendation(ctx iris.Context) {
	session := getSession(ctx)
	if session == nil {
		return
	}

	session.Retry()
	ctx.JSON(iris.Map{"step": session.Step, "index": session.Index})
}

// SaveRecommendation converts the liked candidate into a persisted entry at
// the end of the day and closes the session. The client refreshes the
// itinerary afterwards.
func SaveRecommendation(ctx iris.Context) {
	session := getSession(ctx)
	if session == nil {
		return
	}

	var input struct {
		Time string `json:"time" validate:"max=8"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	dayEntries, ok := loadDayEntries(session.DayID, ctx)
	if !ok {
		return
	}

	schedule, buildErr := session.BuildSchedule(input.Time, dayEntries)
	if buildErr != nil {
		utils.CreateError(iris.StatusConflict, "Save Error", buildErr.Error(), ctx)
		return
	}

	if err := storage.DB.Create(&schedule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	sessionsMu.Lock()
	delete(sessions, session.ID)
	sessionsMu.Unlock()

	ctx.JSON(iris.Map{"data": schedule, "refresh": true})
}

// CloseRecommendation discards a session from any step.
func CloseRecommendation(ctx iris.Context) {
	id := ctx.Params().Get("sessionID")

	sessionsMu.Lock()
	delete(sessions, id)
	sessionsMu.Unlock()

	ctx.JSON(iris.Map{"closed": true})
}

func getSession(ctx iris.Context) *services.Session {
	id := ctx.Params().Get("sessionID")

	sessionsMu.Lock()
	session := sessions[id]
	sessionsMu.Unlock()

	if session == nil {
		utils.CreateNotFound(ctx)
		return nil
	}

	// sessions are private to the user who opened them
	day, _ := getOwnedDayByID(session.DayID, ctx)
	if day == nil {
		return nil
	}

	return session
}

// getOwnedDayByID is getOwnedDay for callers that have the id outside the
// URL params.
func getOwnedDayByID(dayID uint, ctx iris.Context) (*models.Day, *models.Trip) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var day models.Day
	result := storage.DB.Where("id = ?", dayID).Limit(1).Find(&day)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil, nil
	}

	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}
	if trip.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil, nil
	}

	return &day, &trip
}

// loadTripEntries returns every coordinate-bearing entry of a trip in day
// and display order, for the search-base fallback.
func loadTripEntries(tripID uint, ctx iris.Context) ([]models.Schedule, bool) {
	var entries []models.Schedule
	if err := storage.DB.
		Joins("JOIN days ON days.id = schedules.day_id").
		Where("days.trip_id = ? AND schedules.lat IS NOT NULL", tripID).
		Order("days.date ASC, schedules.display_order ASC").
		Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil, false
	}
	return entries, true
}
