package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"neon/collab-portal/collab-portal-backend/internal/applications"
	"neon/collab-portal/collab-portal-backend/internal/auth"
	"neon/collab-portal/collab-portal-backend/internal/config"
	"neon/collab-portal/collab-portal-backend/internal/deliverables"
	"neon/collab-portal/collab-portal-backend/internal/projects"
	"neon/collab-portal/collab-portal-backend/internal/skills"
	"neon/collab-portal/collab-portal-backend/internal/users"
	"neon/collab-portal/collab-portal-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Logging.Level == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&users.User{},
		&skills.SkillType{},
		&projects.Project{},
		&projects.SkillRequirement{},
		&applications.Application{},
		&deliverables.Deliverable{},
		&deliverables.Confirmation{},
	); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Deliverable payload store
	blobs, err := storage.NewS3Store(context.Background(), storage.Config{
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		logger.Fatal("failed to initialize blob storage", zap.Error(err))
	}

	// Wire feature modules
	usersHandler := users.NewHandler(users.NewService(users.NewRepository(db)))
	skillsHandler := skills.NewHandler(skills.NewService(skills.NewRepository(db)))
	projectsHandler := projects.NewHandler(projects.NewService(projects.NewRepository(db), logger))
	applicationsHandler := applications.NewHandler(applications.NewService(applications.NewRepository(db), logger))
	deliverablesHandler := deliverables.NewHandler(deliverables.NewService(deliverables.NewRepository(db), blobs, logger))

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	router.Use(auth.Middleware(cfg.Auth.JWTSecret))

	// Register Routes
	api := router.Group("/api")
	{
		usersHandler.RegisterRoutes(api)
		skillsHandler.RegisterRoutes(api)
		projectsHandler.RegisterRoutes(api)
		applicationsHandler.RegisterRoutes(api)
		deliverablesHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
