package main

import (
	"os"
	"trip-planner-server/routes"
	"trip-planner-server/storage"
	"trip-planner-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUser)
	}

	trip := app.Party("/api/trip", accessTokenVerifierMiddleware)
	{
		trip.Post("/", routes.CreateTrip)
		trip.Get("/", routes.GetUserTrips)
		trip.Get("/{id}", routes.GetTripDetail)
		trip.Delete("/{id}", routes.DeleteTrip)
		trip.Post("/{id}/extend", routes.ExtendTrip)
		trip.Post("/{id}/shorten", routes.ShortenTrip)
		trip.Put("/{id}/preference", routes.UpsertTripPreference)
		trip.Post("/{id}/generate", routes.GenerateTripItinerary)
		trip.Post("/{id}/notes", routes.CreateTripNote)
		trip.Delete("/{id}/notes/{noteID}", routes.DeleteTripNote)
		trip.Post("/{id}/tips", routes.CreateTripTip)
		trip.Delete("/{id}/tips/{tipID}", routes.DeleteTripTip)
	}

	day := app.Party("/api/day", accessTokenVerifierMiddleware)
	{
		day.Get("/{dayID}/schedules", routes.GetDaySchedules)
		day.Post("/{dayID}/schedules", routes.CreateSchedule)
		day.Post("/{dayID}/schedules/reorder", routes.ReorderSchedules)
		day.Patch("/{dayID}/schedules/order", routes.UpdateScheduleOrder)
	}

	schedule := app.Party("/api/schedule", accessTokenVerifierMiddleware)
	{
		schedule.Put("/{id}", routes.UpdateSchedule)
		schedule.Delete("/{id}", routes.DeleteSchedule)
	}

	recommend := app.Party("/api/recommend", accessTokenVerifierMiddleware)
	{
		recommend.Post("/session", routes.StartRecommendation)
		recommend.Post("/session/{sessionID}/search", routes.SearchRecommendation)
		recommend.Post("/session/{sessionID}/vote", routes.VoteRecommendation)
		recommend.Post("/session/{sessionID}/retry", routes.RetryRecommendation)
		recommend.Post("/session/{sessionID}/save", routes.SaveRecommendation)
		recommend.Delete("/session/{sessionID}", routes.CloseRecommendation)
	}

	app.Get("/api/geocode", accessTokenVerifierMiddleware, routes.GeocodeAddress)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	app.Listen(":" + port)
}
