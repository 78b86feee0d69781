package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/controllers"
)

func SetupAuthoringRoutes(protected *gin.RouterGroup, authoringController *controllers.AuthoringController) {
	authoring := protected.Group("/authoring")
	{
		authoring.POST("/activate", authoringController.Activate)
		authoring.POST("/start", authoringController.StartNew)
		authoring.GET("/view", authoringController.View)
		authoring.POST("/navigate", authoringController.Navigate)
		authoring.POST("/save", authoringController.Save)

		// Step 1: trip setup
		authoring.PUT("/setup", authoringController.UpdateSetup)
		authoring.GET("/setup/destinations", authoringController.SearchDestinations)
		authoring.POST("/setup/destination", authoringController.SelectDestination)

		// Step 2: day planner
		authoring.POST("/days", authoringController.EditDays)

		// Step 3: details
		authoring.PUT("/details", authoringController.UpdateDetails)

		// Step 4: review and publish
		authoring.POST("/checklist", authoringController.SetChecklist)
		authoring.POST("/publish", authoringController.Publish)

		authoring.GET("/activity", authoringController.Activity)
	}
}
