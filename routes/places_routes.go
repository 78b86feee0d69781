package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/wander-list/api-go/controllers"
	"github.com/wander-list/api-go/middleware"
)

// Places proxy endpoints sit outside the auth group; each handler enforces
// its own method contract so OPTIONS preflights get a 200 and anything
// besides POST gets a 405.
func SetupPlacesRoutes(r *gin.Engine, placesController *controllers.PlacesController, rdb *redis.Client) {
	places := r.Group("/api/places")
	places.Use(middleware.RateLimit(middleware.DefaultRateLimit(), rdb))
	{
		places.Any("/autocomplete", placesController.Autocomplete)
		places.Any("/details", placesController.Details)
	}
}
