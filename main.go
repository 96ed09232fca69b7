package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailhub-backend/config"
	"retailhub-backend/database"
	"retailhub-backend/logger"
	"retailhub-backend/middleware"
	"retailhub-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger.Initialize(os.Getenv("APP_ENV"))
	defer logger.Log.Sync()

	if err := config.LoadEnv(); err != nil {
		logger.Log.Fatal("Error loading .env file", zap.Error(err))
	}

	if err := config.ValidateEnv(); err != nil {
		logger.Log.Fatal("Environment validation failed", zap.Error(err))
	}

	db, err := database.Connect()
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := database.CreateDefaultAdmin(db); err != nil {
		logger.Log.Warn("Could not create default admin", zap.Error(err))
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.RequestLogger(logger.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		logger.Log.Warn("No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, db)

	port := config.GetEnv("PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Log.Error("Error closing database connection", zap.Error(err))
		} else {
			logger.Log.Info("Database connection closed")
		}
	}

	logger.Log.Info("Server exited gracefully")
}
