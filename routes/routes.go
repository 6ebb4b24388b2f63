package routes

import (
	"ControlMed/assistant"
	"ControlMed/cache"
	"ControlMed/config"
	"ControlMed/controllers"
	"ControlMed/handlers"
	"ControlMed/middlewares"
	"ControlMed/repositories"
	"ControlMed/services"
	"context"
	"log"
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
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
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

	// Repositories
	patientRepo := repositories.NewPatientRepository(cache)
	doctorRepo := repositories.NewDoctorRepository(cache)
	odontogramRepo := repositories.NewOdontogramRepository(cache)
	budgetRepo := repositories.NewBudgetRepository(cache)
	clinicalRecordRepo := repositories.NewClinicalRecordRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	userRepo := repositories.NewUserRepository(db, cache)

	// Assistant core
	catalog := assistant.NewCatalog()
	resolver := assistant.NewPatientResolver(patientRepo, assistant.DoctorAssignmentPolicy)
	dispatcher := assistant.NewDispatcher(
		catalog,
		resolver,
		assistant.NewOdontogramManager(odontogramRepo),
		assistant.NewBudgetBuilder(budgetRepo),
		assistant.NewRecordWriter(clinicalRecordRepo),
		assistant.NewScheduler(appointmentRepo, assistant.FirstDoctorPolicy(doctorRepo)),
		assistant.NewSummaryReader(clinicalRecordRepo, odontogramRepo, budgetRepo),
	)

	var planner assistant.Planner
	if config.GeminiAPIKey != "" {
		geminiPlanner, err := assistant.NewGeminiPlanner(context.Background(), config.GeminiAPIKey, config.GeminiModelID)
		if err != nil {
			log.Printf("Gemini planner unavailable, prompts disabled: %v", err)
		} else {
			planner = geminiPlanner
		}
	}

	// Services
	patientService := services.NewPatientService(patientRepo)
	doctorService := services.NewDoctorService(doctorRepo)
	odontogramService := services.NewOdontogramService(odontogramRepo)
	budgetService := services.NewBudgetService(budgetRepo)
	clinicalRecordService := services.NewClinicalRecordService(clinicalRecordRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo)
	assistantService := services.NewAssistantService(dispatcher, planner)
	userService := services.NewUserService(userRepo)

	// Handlers
	patientHandler := handlers.NewPatientHandler(patientService)
	doctorHandler := handlers.NewDoctorHandler(doctorService)
	odontogramHandler := handlers.NewOdontogramHandler(odontogramService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	clinicalRecordHandler := handlers.NewClinicalRecordHandler(clinicalRecordService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		doctorHandler,
		odontogramHandler,
		budgetHandler,
		clinicalRecordHandler,
		appointmentHandler,
	)
	controllers.SetupAssistantRoutes(router, assistantHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
