package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/controllers"
)

func SetupDraftRoutes(protected *gin.RouterGroup, draftController *controllers.DraftController) {
	drafts := protected.Group("/drafts")
	{
		drafts.GET("", draftController.List)
		drafts.POST("", draftController.Create)
		drafts.GET("/:id", draftController.Get)
		drafts.GET("/:id/preview", draftController.GetPreview)
		drafts.PUT("/:id", draftController.Update)
		drafts.PUT("/:id/complete", draftController.SaveComplete)
		drafts.DELETE("/:id", draftController.Delete)
		drafts.POST("/:id/publish", draftController.Publish)

		// Step-3 essentials
		drafts.GET("/:id/essentials", draftController.GetEssentials)
		drafts.PUT("/:id/characteristics", draftController.SaveCharacteristics)
		drafts.PUT("/:id/transportation", draftController.SaveTransportation)
		drafts.PUT("/:id/accommodation", draftController.SaveAccommodation)
		drafts.PUT("/:id/travel-tips", draftController.SaveTravelTips)
	}
}
