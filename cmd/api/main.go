package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rentcompare/internal/auth"
	"rentcompare/internal/config"
	"rentcompare/internal/database"
	"rentcompare/internal/distance"
	"rentcompare/internal/geo"
	"rentcompare/internal/handlers"
	"rentcompare/internal/ratelimit"
	"rentcompare/internal/scheduler"
	"rentcompare/internal/search"
)

func main() {
	// Load .env if present (local development)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/rentcompare.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database
	dbCfg := appConfig.Database
	portStr := ""
	if dbCfg.Port > 0 {
		portStr = fmt.Sprintf("%d", dbCfg.Port)
	}

	gormDB, err := database.NewGormDB(
		getEnvOrConfig(dbCfg.Host, "DB_HOST", "db"),
		getEnvOrConfig(portStr, "DB_PORT", "5432"),
		getEnvOrConfig(dbCfg.User, "DB_USER", "rentcompare_user"),
		getEnvOrConfig(dbCfg.Password, "DB_PASSWORD", "rentcompare_pass"),
		getEnvOrConfig(dbCfg.Database, "DB_NAME", "rentcompare_db"),
		getEnvOrConfig(dbCfg.SSLMode, "DB_SSLMODE", "disable"),
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer gormDB.Close()

	if err := gormDB.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Rate limiter guards the upstream geocoding provider
	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.Geocoding.RequestsPerMinute,
		appConfig.Geocoding.RequestsPerHour,
		appConfig.Geocoding.RequestsPerDay,
		appConfig.Geocoding.RateLimitEnabled,
	)
	log.Printf("Geocoding rate limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.Geocoding.RequestsPerMinute,
		appConfig.Geocoding.RequestsPerHour,
		appConfig.Geocoding.RequestsPerDay,
		appConfig.Geocoding.RateLimitEnabled,
	)

	geocoder := geo.NewGeocoder(geo.GeocoderConfig{
		BaseURL:   appConfig.Geocoding.BaseURL,
		UserAgent: appConfig.Geocoding.UserAgent,
		Timeout:   appConfig.Geocoding.GetTimeout(),
		Limiter:   rateLimiter,
	})

	distanceService := distance.NewService(gormDB)

	// Optional Meilisearch index for apartment name/address search
	var searchClient *search.SearchClient
	if appConfig.Search.Enabled {
		meilisearchHost := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700")
		meilisearchKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "")

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	// Daily geocoding retry job
	appScheduler := scheduler.NewScheduler(gormDB, geocoder, distanceService, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	jwtService := auth.NewJWTService(jwtSecret)

	authHandler := handlers.NewAuthHandler(gormDB, jwtService)
	apartmentHandler := handlers.NewApartmentHandler(gormDB, geocoder, distanceService, searchClient, appConfig.Limits)
	placeHandler := handlers.NewPlaceHandler(gormDB, geocoder, distanceService, appConfig.Limits)
	preferenceHandler := handlers.NewPreferenceHandler(gormDB)
	compareHandler := handlers.NewCompareHandler(gormDB, distanceService)
	subscriptionHandler := handlers.NewSubscriptionHandler(gormDB, appConfig.Limits)
	adminHandler := handlers.NewAdminHandler(gormDB, appScheduler, rateLimiter)

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)
	r.POST("/api/auth/signup", authHandler.Signup)
	r.POST("/api/auth/login", authHandler.Login)

	api := r.Group("/api", auth.Middleware(jwtService))
	{
		api.GET("/apartments", apartmentHandler.List)
		api.POST("/apartments", apartmentHandler.Create)
		api.GET("/apartments/search", apartmentHandler.Search)
		api.GET("/apartments/:id", apartmentHandler.Get)
		api.PUT("/apartments/:id", apartmentHandler.Update)
		api.DELETE("/apartments/:id", apartmentHandler.Delete)
		api.GET("/apartments/:id/distances", apartmentHandler.GetDistances)

		api.GET("/places", placeHandler.List)
		api.POST("/places", placeHandler.Create)
		api.PUT("/places/:id", placeHandler.Update)
		api.DELETE("/places/:id", placeHandler.Delete)

		api.GET("/preferences", preferenceHandler.Get)
		api.PUT("/preferences", preferenceHandler.Update)

		api.GET("/compare", compareHandler.Compare)

		api.GET("/subscription", subscriptionHandler.Get)
		api.POST("/subscription/upgrade", subscriptionHandler.Upgrade)
		api.POST("/subscription/cancel", subscriptionHandler.Cancel)
	}

	// Admin API routes (requires authentication in production)
	admin := r.Group("/api/admin")
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/geocode/retry", adminHandler.TriggerGeocodeRetry)
	}

	port := getEnv("PORT", appConfig.Server.Port)
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
