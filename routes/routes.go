package routes

import (
	"SiKecil/cache"
	"SiKecil/config"
	"SiKecil/controllers"
	"SiKecil/handlers"
	"SiKecil/middlewares"
	"SiKecil/repositories"
	"SiKecil/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://sikecil.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	ruleRepo := repositories.NewRuleRepository(db, cache)
	symptomRepo := repositories.NewSymptomRepository(db, cache, ruleRepo)
	conditionRepo := repositories.NewConditionRepository(db, cache, ruleRepo)
	patientRepo := repositories.NewPatientRepository(db, cache)
	measurementRepo := repositories.NewMeasurementRepository(db)
	consultationRepo := repositories.NewConsultationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	userRepo := repositories.NewUserRepository(db, cache)

	// Initialize services
	anthropometryService := services.NewAnthropometryService(measurementRepo, notificationRepo, config)
	measurementService := services.NewMeasurementService(patientRepo, measurementRepo, anthropometryService)
	inferenceService := services.NewInferenceService(patientRepo, ruleRepo, consultationRepo)
	consultationQueryService := services.NewConsultationQueryService(consultationRepo)
	knowledgeService := services.NewKnowledgeService(symptomRepo, conditionRepo, ruleRepo, patientRepo, consultationRepo)
	patientService := services.NewPatientService(patientRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	userService := services.NewUserService(userRepo)

	// Initialize handlers
	patientHandler := handlers.NewPatientHandler(patientService)
	measurementHandler := handlers.NewMeasurementHandler(measurementService)
	consultationHandler := handlers.NewConsultationHandler(inferenceService, consultationQueryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	controllers.SetupPatientRoutes(
		router,
		patientHandler,
		measurementHandler,
		consultationHandler,
		notificationHandler,
	)

	controllers.SetupKnowledgeRoutes(router, knowledgeHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
