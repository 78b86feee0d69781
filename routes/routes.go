package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/wander-list/api-go/cache"
	"github.com/wander-list/api-go/controllers"
	"github.com/wander-list/api-go/middleware"
	"github.com/wander-list/api-go/places"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	// Session state lives in redis when available, in memory otherwise.
	var kv cache.KV
	if rdb != nil {
		kv = cache.NewRedisKV(rdb)
	}

	// The wizard talks to the places API through our own proxy so the key
	// stays server-side.
	placesBase := os.Getenv("PLACES_PROXY_URL")
	if placesBase == "" {
		placesBase = "http://localhost:" + port()
	}

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	draftController := controllers.NewDraftController(db)
	itineraryController := controllers.NewItineraryController(db)
	placesController := controllers.NewPlacesController()
	uploadController := controllers.NewUploadController(db)

	registry := controllers.NewSessionRegistry(db, places.NewClient(placesBase), kv)
	authoringController := controllers.NewAuthoringController(registry, db)
	wishlistController := controllers.NewWishlistController(db, registry)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
		public.POST("/auth/google/callback", authController.GoogleCallback)
		public.POST("/refresh-token", authController.RefreshToken)
	}

	SetupPlacesRoutes(r, placesController, rdb)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupDraftRoutes(protected, draftController)
		SetupAuthoringRoutes(protected, authoringController)
		SetupItineraryRoutes(protected, itineraryController)
		SetupWishlistRoutes(protected, wishlistController)
		SetupUploadRoutes(protected, uploadController)
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
