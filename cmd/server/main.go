package main

import (
	"log"

	"github.com/cpopa/taskdesk-api/internal/config"
	"github.com/cpopa/taskdesk-api/internal/database"
	"github.com/cpopa/taskdesk-api/internal/handlers"
	"github.com/cpopa/taskdesk-api/internal/middleware"
	"github.com/cpopa/taskdesk-api/internal/notify"
	"github.com/cpopa/taskdesk-api/internal/repository"
	"github.com/cpopa/taskdesk-api/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	taskRepo := repository.NewTaskRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewLogRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Services. The hub and the message service reference each other at
	// runtime (inbound frames persist through the service, committed sends
	// fan out through the hub), so the hub is built around the store
	// interface first.
	policy := services.NewAccessPolicy(workspaceRepo)
	messageService := services.NewMessageService(messageRepo, userRepo, policy)
	hub := notify.NewHub(messageService)
	dispatcher := services.NewDispatcher(logRepo, userRepo, hub)

	authService := services.NewAuthService(userRepo, tokenRepo, cfg)
	taskService := services.NewTaskService(taskRepo, userRepo, policy, dispatcher)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo, policy)
	userService := services.NewUserService(userRepo)
	logService := services.NewLogService(logRepo)
	locationService := services.NewLocationService(workspaceRepo, policy)
	aiService := services.NewAIService(cfg.OpenAIAPIKey)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, locationService)
	messageHandler := handlers.NewMessageHandler(messageService, dispatcher)
	userHandler := handlers.NewUserHandler(userService)
	logHandler := handlers.NewLogHandler(logService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskDesk API is running",
		})
	})

	requireAuth := middleware.RequireAuth(cfg.AccessTokenSecret)

	// Realtime endpoint; authenticated like any other route, the token
	// arriving as a query parameter
	r.GET("/ws", requireAuth, func(c *gin.Context) {
		userID, exists := middleware.GetUserID(c)
		if !exists {
			return
		}
		hub.Serve(c.Writer, c.Request, userID)
	})

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/search", userHandler.Search)
			users.PATCH("/me/location", userHandler.UpdateLocation)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(requireAuth)
		{
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.GET("/:id", workspaceHandler.GetWorkspace)
			workspaces.POST("/:id/members", workspaceHandler.AddMember)
			workspaces.GET("/:id/locations", workspaceHandler.MemberLocations)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			// Registered before /:id so "locations" is not parsed as an id
			tasks.GET("/locations", taskHandler.TaskLocations)
			tasks.GET("/workspace/:workspaceId", taskHandler.ListWorkspaceTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/delegate", taskHandler.DelegateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.POST("/:id/subtasks", taskHandler.CreateSubTask)
			tasks.POST("/:id/subtasks/suggest", taskHandler.SuggestSubTasks)
		}

		// Activity log routes (protected)
		logs := api.Group("/logs")
		logs.Use(requireAuth)
		{
			logs.GET("", logHandler.ListLogs)
		}

		// Message routes (protected)
		messages := api.Group("/messages")
		messages.Use(requireAuth)
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("/conversations", messageHandler.Conversations)
			messages.GET("/direct/:userId", messageHandler.DirectHistory)
			messages.GET("/workspace/:workspaceId", messageHandler.WorkspaceHistory)
		}
	}

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
