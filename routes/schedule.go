package routes

import (
	"trip-planner-server/models"
	"trip-planner-server/services"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// CreateSchedule appends a manual entry to a day. The new entry always lands
// at the end of the day's current order.
func CreateSchedule(ctx iris.Context) {
	day := getOwnedDay(ctx)
	if day == nil {
		return
	}

	var input ScheduleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Icon != "" && !slices.Contains(models.IconKeys, input.Icon) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown icon key.", ctx)
		return
	}

	entries, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}

	schedule := models.Schedule{
		DayID:        day.ID,
		Time:         input.Time,
		TimeEnd:      input.TimeEnd,
		Activity:     input.Activity,
		Description:  input.Description,
		Icon:         input.Icon,
		Tips:         input.Tips,
		Lat:          input.Lat,
		Lng:          input.Lng,
		DisplayOrder: services.NextDisplayOrder(entries),
	}
	if err := storage.DB.Create(&schedule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": schedule})
}

func UpdateSchedule(ctx iris.Context) {
	schedule := getOwnedSchedule(ctx)
	if schedule == nil {
		return
	}

	var input ScheduleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Icon != "" && !slices.Contains(models.IconKeys, input.Icon) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown icon key.", ctx)
		return
	}

	schedule.Time = input.Time
	schedule.TimeEnd = input.TimeEnd
	schedule.Activity = input.Activity
	schedule.Description = input.Description
	schedule.Icon = input.Icon
	schedule.Tips = input.Tips
	schedule.Lat = input.Lat
	schedule.Lng = input.Lng

	if err := storage.DB.Save(schedule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"data": schedule})
}

func DeleteSchedule(ctx iris.Context) {
	schedule := getOwnedSchedule(ctx)
	if schedule == nil {
		return
	}

	if err := storage.DB.Delete(schedule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// ReorderSchedules moves one entry of a day from one position to another and
// rewrites the whole day's display orders as a dense 0..N-1 sequence.
//
// The caller applies the new order optimistically; if persisting fails here,
// the response carries the stored order so the client reverts to the last
// known-good state instead of showing a half-applied one.
func ReorderSchedules(ctx iris.Context) {
	day := getOwnedDay(ctx)
	if day == nil {
		return
	}

	var input ReorderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	entries, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}

	if input.From < 0 || input.From >= len(entries) || input.To < 0 || input.To >= len(entries) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Position out of range.", ctx)
		return
	}

	reordered, patch := services.Reorder(entries, input.From, input.To)
	if patch == nil {
		ctx.JSON(iris.Map{"data": entries})
		return
	}

	if err := services.ApplyOrderPatch(patch); err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "reorder_failed",
			"Order change could not be saved; showing the previous order.", entries)
		return
	}

	ctx.JSON(iris.Map{"data": reordered})
}

// UpdateScheduleOrder is the batched order-update primitive: a list of
// {id, order} rows applied in one transaction. Every id must belong to the
// day; a patch touching foreign rows is rejected outright.
func UpdateScheduleOrder(ctx iris.Context) {
	day := getOwnedDay(ctx)
	if day == nil {
		return
	}

	var input struct {
		Updates []services.OrderPatch `json:"updates" validate:"required,min=1"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	entries, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}

	ids := make(map[uint]bool, len(entries))
	for _, entry := range entries {
		ids[entry.ID] = true
	}
	for _, row := range input.Updates {
		if !ids[row.ID] {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Patch references an entry outside this day.", ctx)
			return
		}
	}

	if err := services.ApplyOrderPatch(input.Updates); err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "reorder_failed",
			"Order change could not be saved; showing the previous order.", entries)
		return
	}

	reordered, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}
	ctx.JSON(iris.Map{"data": reordered})
}

// GetDaySchedules returns the day's entries in display order.
func GetDaySchedules(ctx iris.Context) {
	day := getOwnedDay(ctx)
	if day == nil {
		return
	}

	entries, ok := loadDayEntries(day.ID, ctx)
	if !ok {
		return
	}

	ctx.JSON(iris.Map{"data": entries})
}

// loadDayEntries fetches a day's entries in authoritative order. The bool is
// false when the response has already been written.
func loadDayEntries(dayID uint, ctx iris.Context) ([]models.Schedule, bool) {
	var entries []models.Schedule
	if err := storage.DB.Where("day_id = ?", dayID).
		Order("display_order ASC, time ASC").
		Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil, false
	}
	return entries, true
}

// getOwnedDay loads the {dayID} day and checks that its trip belongs to the
// authenticated user.
func getOwnedDay(ctx iris.Context) *models.Day {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("dayID")

	var day models.Day
	result := storage.DB.Where("id = ?", id).Limit(1).Find(&day)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if trip.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}

	return &day
}

func getOwnedSchedule(ctx iris.Context) *models.Schedule {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var schedule models.Schedule
	result := storage.DB.Where("id = ?", id).Limit(1).Find(&schedule)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	var day models.Day
	if err := storage.DB.First(&day, schedule.DayID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	var trip models.Trip
	if err := storage.DB.First(&trip, day.TripID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if trip.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return nil
	}

	return &schedule
}

type ScheduleInput struct {
	Time        string   `json:"time" validate:"max=8"`
	TimeEnd     string   `json:"timeEnd" validate:"max=8"`
	Activity    string   `json:"activity" validate:"required,max=256"`
	Description string   `json:"description"`
	Icon        string   `json:"icon" validate:"max=20"`
	Tips        string   `json:"tips"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type ReorderInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}
