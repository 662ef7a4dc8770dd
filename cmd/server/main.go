package main

import (
	"os"

	"github.com/vilanovax/karbarg/internal/config"
	"github.com/vilanovax/karbarg/internal/db"
	"github.com/vilanovax/karbarg/internal/logger"
	"github.com/vilanovax/karbarg/internal/middleware"
	"github.com/vilanovax/karbarg/internal/router"
	"github.com/vilanovax/karbarg/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	logger.Init("karbarg")
	if envErr != nil {
		logger.L.Info("No .env file found, using system env vars")
	}

	cfg := config.Load()

	// Initialize Database
	db.Init()

	// Start the async answer-quality recompute worker
	services.InitQualityService(cfg)

	// Initialize Gin
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("karbarg_session", store))

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.L.Infof("Karbarg server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.L.Fatal(err)
	}
}
