package routes

import (
	"trip-planner-server/services"
)

// External collaborators used by the routes. Built lazily so the clients
// pick up environment variables only after main has loaded .env; tests may
// assign fakes directly.
var (
	weather   *services.WeatherClient
	generator *services.GeneratorClient
	geocoder  *services.GeocodeClient
	places    services.PlaceSearcher
)

func NewWeather() *services.WeatherClient {
	if weather == nil {
		weather = services.NewWeatherClient()
	}
	return weather
}

func NewGenerator() *services.GeneratorClient {
	if generator == nil {
		generator = services.NewGeneratorClient()
	}
	return generator
}

func NewGeocoder() *services.GeocodeClient {
	if geocoder == nil {
		geocoder = services.NewGeocodeClient()
	}
	return geocoder
}

func NewPlaces() services.PlaceSearcher {
	if places == nil {
		places = services.NewGooglePlacesClient()
	}
	return places
}
