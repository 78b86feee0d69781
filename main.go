package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/wander-list/api-go/config"
	"github.com/wander-list/api-go/routes"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db := config.InitDB()

	// Redis is optional; a nil client disables rate limiting and drops the
	// session cache back to memory.
	rdb := config.NewRedisClient()

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db, rdb)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
