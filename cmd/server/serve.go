package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"storytracker/internal/config"
	"storytracker/internal/constants"
	"storytracker/internal/database"
	"storytracker/internal/handlers"
	"storytracker/internal/middleware"
	"storytracker/internal/repository"
	"storytracker/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		gin.SetMode(cfg.GinMode)

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		// Everything is constructed once here and passed by reference; no package
		// holds ambient mutable state.
		taskRepo := repository.NewTaskRepository(db)
		analyticRepo := repository.NewAnalyticRepository(db)
		projectRepo := repository.NewProjectRepository(db)
		userRepo := repository.NewUserRepository(db)

		analyticService := services.NewAnalyticService(analyticRepo)
		taskService := services.NewTaskService(taskRepo, analyticService)
		projectService := services.NewProjectService(projectRepo)
		authService := services.NewAuthService(userRepo)

		authHandler := handlers.NewAuthHandler(authService)
		taskHandler := handlers.NewTaskHandler(taskService, projectService)
		analyticHandler := handlers.NewAnalyticHandler(analyticService, projectService, taskService)
		projectHandler := handlers.NewProjectHandler(projectService)

		r := gin.Default()

		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		store, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
		if err != nil {
			return fmt.Errorf("failed to create redis store: %w", err)
		}
		isProduction := cfg.GinMode == "release"
		store.Options(sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 7, // 7 days
			HttpOnly: true,
			Secure:   isProduction,
			SameSite: 2, // SameSite=Lax
		})
		r.Use(sessions.Sessions(constants.SessionCookieName, store))
		r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

		r.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Story tracker API is running",
			})
		})

		api := r.Group("/api")
		{
			auth := api.Group("/auth")
			{
				auth.POST("/signup", authHandler.Signup)
				auth.POST("/login", authHandler.Login)
				auth.POST("/logout", authHandler.Logout)
				auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			}

			projects := api.Group("/projects")
			projects.Use(middleware.RequireAuth())
			{
				projects.POST("", projectHandler.CreateProject)
				projects.GET("", projectHandler.ListProjects)
				projects.GET("/:projectId", projectHandler.GetProject)
			}

			tasks := api.Group("/tasks")
			tasks.Use(middleware.RequireAuth())
			{
				tasks.GET("", taskHandler.ListTasks)
				tasks.POST("/technicalStory", taskHandler.CreateTechnicalStory)
				tasks.POST("/userStory", taskHandler.CreateUserStory)
				tasks.GET("/:taskId", taskHandler.GetTask)
				tasks.PUT("/:taskId", taskHandler.UpdateTask)
				tasks.DELETE("/:taskId", taskHandler.DeleteTask)
				tasks.PUT("/:taskId/toQa", taskHandler.MoveToQa)
				tasks.PUT("/:taskId/complete", taskHandler.Complete)
				tasks.POST("/:taskId/archive", taskHandler.SwitchArchivedStatus)
			}

			api.GET("/analytics/:resourceId", middleware.RequireAuth(), analyticHandler.GetAnalytic)
		}

		log.Printf("Server starting on %s", cfg.ServerAddr)
		return r.Run(cfg.ServerAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
