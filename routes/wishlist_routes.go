package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/controllers"
)

func SetupWishlistRoutes(protected *gin.RouterGroup, wishlistController *controllers.WishlistController) {
	wishlist := protected.Group("/wishlist")
	{
		wishlist.GET("", wishlistController.List)
		wishlist.POST("", wishlistController.Add)
		wishlist.DELETE("/:itineraryId", wishlistController.Remove)
		wishlist.GET("/:itineraryId/check", wishlistController.Check)
	}
}
