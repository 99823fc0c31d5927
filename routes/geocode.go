package routes

import (
	"errors"
	"trip-planner-server/services"
	"trip-planner-server/utils"

	"github.com/kataras/iris/v12"
)

// GeocodeAddress resolves a free-text address to coordinates for manual
// schedule entry.
func GeocodeAddress(ctx iris.Context) {
	address := ctx.URLParam("address")
	if address == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "address is required", ctx)
		return
	}

	lat, lng, err := NewGeocoder().Resolve(address)
	if errors.Is(err, services.ErrAddressNotFound) {
		utils.CreateNotFound(ctx)
		return
	}
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Geocode Error", err.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"lat": lat, "lng": lng})
}
