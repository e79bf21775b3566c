package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/client/functions"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/handlers"
	"github.com/yukikurage/team-task-api/internal/logger"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.Init("team-task-api", cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(log); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	db := database.GetDB()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logging(log), middleware.Metrics())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create Redis store")
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	if cfg.Functions.BaseURL == "" {
		log.Warn("FUNCTIONS_URL is not set, reminders will fail to schedule")
	}
	functionsClient := functions.NewClient(cfg.Functions.BaseURL, cfg.Functions.APIKey, cfg.Functions.Timeout, log)

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, log)
	taskService := services.NewTaskService(taskRepo, teamRepo, aiService)
	reminderService := services.NewReminderService(functionsClient, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	teamHandler := handlers.NewTeamHandler(teamService, log)
	taskHandler := handlers.NewTaskHandler(taskService, teamService, authService, reminderService, log)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Team Task API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Settings routes (protected)
		me := api.Group("/me")
		me.Use(middleware.RequireAuth())
		{
			me.GET("/settings", authHandler.GetSettings)
			me.PUT("/settings", authHandler.UpdateSettings)
		}

		// Team routes (protected)
		teamAccess := middleware.RequireTeamAccess(teamService)
		teamAdmin := middleware.RequireTeamAdmin()
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.POST("/join", teamHandler.JoinTeam)
			teams.GET("/:id", teamAccess, teamHandler.GetTeam)
			teams.GET("/:id/members", teamAccess, teamHandler.ListMembers)
			teams.DELETE("/:id", teamAccess, teamAdmin, teamHandler.DeleteTeam)
			teams.POST("/:id/regenerate-code", teamAccess, teamAdmin, teamHandler.RegenerateInviteCode)
			teams.DELETE("/:id/members/:user_id", teamAccess, teamAdmin, teamHandler.RemoveMember)
		}

		// Task routes (protected)
		taskAccess := middleware.RequireTaskAccess(taskService)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", taskAccess, taskHandler.GetTask)
			tasks.PUT("/:id", taskAccess, taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskAccess, taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskAccess, taskHandler.DeleteTask)
		}
	}

	// Start server
	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
