package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	drafts := protected.Group("/drafts")
	{
		// Cover image: direct upload or presigned browser upload
		drafts.POST("/:id/cover", uploadController.UploadCover)
		drafts.POST("/:id/cover/presign", uploadController.PresignCover)
		drafts.POST("/:id/cover/confirm", uploadController.ConfirmCover)
		drafts.DELETE("/:id/cover", uploadController.DeleteCover)
	}
}
