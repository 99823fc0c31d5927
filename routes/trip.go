package routes

import (
	"encoding/json"
	"log"
	"time"
	"trip-planner-server/models"
	"trip-planner-server/services"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateTrip creates the trip and one Day row per calendar date in the span,
// numbered 1..N. The Day rows exist up front so schedules can be attached to
// any date immediately.
func CreateTrip(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input CreateTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	dates := services.DatesInRange(input.StartDate, input.EndDate)
	if len(dates) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate and endDate must be YYYY-MM-DD with startDate <= endDate.", ctx)
		return
	}

	trip := models.Trip{
		UserID:    claims.ID,
		Title:     input.Title,
		Location:  input.Location,
		Country:   input.Country,
		Theme:     input.Theme,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trip).Error; err != nil {
			return err
		}
		for i, date := range dates {
			day := models.Day{TripID: trip.ID, DayNumber: i + 1, Date: date}
			if err := tx.Create(&day).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": trip})
}

// GetUserTrips lists the authenticated user's trips, newest first.
func GetUserTrips(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	storage.DB.Model(&models.Trip{}).Where("user_id = ?", claims.ID).Count(&total)

	var trips []models.Trip
	if err := storage.DB.Where("user_id = ?", claims.ID).
		Order("start_date DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&trips).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, trips, page, perPage, total)
}

// GetTripDetail returns the view-ready itinerary: header info plus one
// DaySchedule per calendar date with plans in display order and, when the
// trip has base coordinates, the weather for each date.
func GetTripDetail(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	if err := storage.DB.
		Preload("Days.Schedules").
		Preload(clause.Associations).
		First(trip, trip.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var weather map[string]services.WeatherInfo
	if trip.Latitude != nil && trip.Longitude != nil {
		var weatherErr error
		weather, weatherErr = NewWeather().Fetch(*trip.Latitude, *trip.Longitude, trip.StartDate, trip.EndDate)
		if weatherErr != nil {
			// weather is decoration; the itinerary still renders
			log.Printf("weather fetch failed for trip %d: %v", trip.ID, weatherErr)
		}
	}

	ctx.JSON(iris.Map{
		"tripId": trip.ID,
		"tripHeaderInfo": iris.Map{
			"title":    trip.Title,
			"dates":    formatDateRange(trip.StartDate, trip.EndDate),
			"theme":    trip.Theme,
			"location": trip.Location,
		},
		"scheduleData": services.BuildSchedule(*trip, weather),
		"notes":        trip.Notes,
		"tips":         trip.Tips,
	})
}

func DeleteTrip(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	if err := storage.DB.Select(clause.Associations).Delete(trip).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// ExtendTrip appends exactly one day to the end of the trip: end_date moves
// forward and a trailing Day row is created. Days are never inserted in the
// middle, so numbering stays contiguous.
func ExtendTrip(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	endDate, parseErr := time.Parse("2006-01-02", trip.EndDate)
	if parseErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	newEndDate := endDate.AddDate(0, 0, 1).Format("2006-01-02")

	var dayCount int64
	storage.DB.Model(&models.Day{}).Where("trip_id = ?", trip.ID).Count(&dayCount)

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(trip).Update("end_date", newEndDate).Error; err != nil {
			return err
		}
		day := models.Day{TripID: trip.ID, DayNumber: int(dayCount) + 1, Date: newEndDate}
		return tx.Create(&day).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"endDate": newEndDate})
}

// ShortenTrip removes the trailing day. Removing any other day is rejected
// before touching storage: dropping a middle day would break the contiguous
// day numbering every other consumer relies on.
func ShortenTrip(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	var input ShortenTripInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Date != trip.EndDate {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Only the last day of a trip can be removed.", ctx)
		return
	}

	if trip.StartDate == trip.EndDate {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"A trip must keep at least one day.", ctx)
		return
	}

	endDate, parseErr := time.Parse("2006-01-02", trip.EndDate)
	if parseErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	newEndDate := endDate.AddDate(0, 0, -1).Format("2006-01-02")

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ? AND date = ?", trip.ID, trip.EndDate).
			Delete(&models.Day{}).Error; err != nil {
			return err
		}
		return tx.Model(trip).Update("end_date", newEndDate).Error
	})
	if txErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"endDate": newEndDate})
}

// UpsertTripPreference stores the taste profile the bulk generator reads.
// One row per trip; repeat submissions overwrite.
func UpsertTripPreference(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	var input TripPreferenceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	interests, marshalErr := json.Marshal(input.Interests)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	pref := models.TripPreference{
		TripID:            trip.ID,
		CompanionType:     input.CompanionType,
		PacePreference:    input.PacePreference,
		AccommodationType: input.AccommodationType,
		Interests:         datatypes.JSON(interests),
		FlightOutDept:     input.FlightOutDept,
		FlightOutArr:      input.FlightOutArr,
		FlightInDept:      input.FlightInDept,
		FlightInArr:       input.FlightInArr,
	}

	if err := storage.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trip_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"companion_type", "pace_preference", "accommodation_type", "interests",
			"flight_out_dept", "flight_out_arr", "flight_in_dept", "flight_in_arr",
		}),
	}).Create(&pref).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": pref})
}

// GenerateTripItinerary runs the bulk AI generation and persists whatever
// the model proposed, ordered by arrival sequence within each day.
func GenerateTripItinerary(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	if err := storage.DB.Preload("Days").Preload("Preference").First(trip, trip.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	rows, genErr := NewGenerator().GenerateItinerary(*trip)
	if genErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Generation Error", genErr.Error(), ctx)
		return
	}

	if len(rows) > 0 {
		if err := storage.DB.Create(&rows).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{"message": "itinerary generated", "count": len(rows)})
}

func CreateTripNote(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	var input struct {
		Title   string `json:"title" validate:"required,max=256"`
		Content string `json:"content"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	note := models.TripNote{TripID: trip.ID, UserID: claims.ID, Title: input.Title, Content: input.Content}
	if err := storage.DB.Create(&note).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": note})
}

func DeleteTripNote(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	noteID := ctx.Params().Get("noteID")
	result := storage.DB.Where("id = ? AND trip_id = ?", noteID, trip.ID).Delete(&models.TripNote{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

func CreateTripTip(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	var input struct {
		Text        string `json:"text" validate:"required,max=512"`
		Description string `json:"description"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	tip := models.TripTip{TripID: trip.ID, UserID: &claims.ID, Text: input.Text, Description: input.Description}
	if err := storage.DB.Create(&tip).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": tip})
}

func DeleteTripTip(ctx iris.Context) {
	trip := getOwnedTrip(ctx)
	if trip == nil {
		return
	}

	tipID := ctx.Params().Get("tipID")
	result := storage.DB.Where("id = ? AND trip_id = ?", tipID, trip.ID).Delete(&models.TripTip{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// getOwnedTrip loads the {id} trip and enforces ownership. Writes the error
// response and returns nil when the trip is missing or owned by someone else.
func getOwnedTrip(ctx iris.Context) *models.Trip {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var trip models.Trip
	result := storage.DB.Where("id = ?", id).Limit(1).Find(&trip)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	if trip.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}

	return &trip
}

func formatDateRange(start, end string) string {
	format := func(date string) string {
		out := []byte(date)
		for i := range out {
			if out[i] == '-' {
				out[i] = '.'
			}
		}
		return string(out)
	}
	return format(start) + " - " + format(end)
}

type CreateTripInput struct {
	Title     string   `json:"title" validate:"required,max=256"`
	Location  string   `json:"location" validate:"max=256"`
	Country   string   `json:"country" validate:"max=256"`
	Theme     string   `json:"theme" validate:"max=256"`
	StartDate string   `json:"startDate" validate:"required,len=10"`
	EndDate   string   `json:"endDate" validate:"required,len=10"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ShortenTripInput struct {
	Date string `json:"date" validate:"required,len=10"`
}

type TripPreferenceInput struct {
	CompanionType     string   `json:"companionType" validate:"max=64"`
	PacePreference    string   `json:"pacePreference" validate:"max=64"`
	AccommodationType string   `json:"accommodationType" validate:"max=64"`
	Interests         []string `json:"interests" validate:"max=20,dive,max=64"`
	FlightOutDept     string   `json:"flightOutDept" validate:"max=8"`
	FlightOutArr      string   `json:"flightOutArr" validate:"max=8"`
	FlightInDept      string   `json:"flightInDept" validate:"max=8"`
	FlightInArr       string   `json:"flightInArr" validate:"max=8"`
}
