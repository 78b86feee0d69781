package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/controllers"
)

func SetupItineraryRoutes(protected *gin.RouterGroup, itineraryController *controllers.ItineraryController) {
	itineraries := protected.Group("/itineraries")
	{
		itineraries.GET("", itineraryController.Feed)
		itineraries.GET("/:id", itineraryController.Get)
		itineraries.GET("/:id/card", itineraryController.Card)
	}
}
