package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"jobfill/config"
	"jobfill/controllers"
	"jobfill/database"
	"jobfill/middleware"
	"jobfill/models"
	"jobfill/services"
	"jobfill/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.GetAppConfig()

	db, err := database.Connect(
		cfg.Database.Host,
		strconv.Itoa(cfg.Database.Port),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	browser, err := services.NewBrowserService(cfg.BrowserHeadless)
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer browser.Close()

	s3Service, err := services.NewS3Service()
	if err != nil {
		utils.LogWarn("S3 not available, screenshots disabled", map[string]interface{}{"error": err.Error()})
		s3Service = nil
	}

	userModel := models.NewUserModel(db)
	profileModel := models.NewProfileModel(db)
	resumeModel := models.NewResumeModel(db)
	credentialsModel := models.NewCredentialsModel(db)

	jwtService := services.NewJWTService(cfg.JWTSecret)

	authController := controllers.NewAuthController(userModel, jwtService)
	profileController := controllers.NewProfileController(profileModel, resumeModel, credentialsModel)
	autofillController := controllers.NewAutofillController(browser, profileModel, resumeModel, credentialsModel, s3Service, cfg.LLM)

	authLimiter := middleware.NewRateLimiter(5, 1*time.Minute)
	fillLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.MaxRequestSize(10 << 20))
	r.Use(middleware.SanitizeInput())

	jsonOnly := middleware.ValidateJSON()

	auth := r.Group("/api/auth")
	auth.Use(authLimiter.Limit(), jsonOnly)
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(jwtService))
	{
		api.GET("/profile", profileController.GetProfile)
		api.PUT("/profile", jsonOnly, profileController.UpdateProfile)
		api.GET("/resume", profileController.GetResume)
		// Resume uploads can be JSON text or a multipart .docx file.
		api.PUT("/resume", middleware.ValidateContentType("application/json", "multipart/form-data"), profileController.UpdateResume)
		api.PUT("/credentials", jsonOnly, profileController.UpdateCredentials)
		api.POST("/autofill", fillLimiter.Limit(), jsonOnly, autofillController.Fill)
	}

	utils.LogInfo("Server starting", map[string]string{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
