package routes

import (
	"time"

	"retailhub-backend/handlers"
	"retailhub-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	authHandler := &handlers.AuthHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	franchiseHandler := handlers.NewFranchiseHandler(db)
	categoryHandler := &handlers.CategoryHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	orderHandler := handlers.NewOrderHandler(db)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		// Auth
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

		// Public catalog
		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
	}

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders/:id", orderHandler.GetOrder)
	}

	// Admin or assigned manager
	managed := api.Group("")
	managed.Use(middleware.AuthMiddleware())
	managed.Use(middleware.AdminOrManagerMiddleware())
	{
		managed.GET("/franchises/:id", franchiseHandler.GetFranchise)
		managed.GET("/franchises/:id/orders", franchiseHandler.GetFranchiseOrders)
		managed.GET("/franchises/:id/stats", franchiseHandler.GetFranchiseStats)
		managed.GET("/franchises/:id/stock", franchiseHandler.GetFranchiseStock)
		managed.PUT("/franchises/:id/stock/:productId", franchiseHandler.UpdateFranchiseStock)
		managed.PUT("/products/:id/stock", productHandler.UpdateProductStock)
		managed.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	// Admin only
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.GET("/users/:id", userHandler.GetUser)

		admin.POST("/franchises", franchiseHandler.CreateFranchise)
		admin.GET("/franchises", franchiseHandler.ListFranchises)
		admin.PUT("/franchises/:id", franchiseHandler.UpdateFranchise)
		admin.DELETE("/franchises/:id", franchiseHandler.DeleteFranchise)
		admin.POST("/franchises/assign-manager", franchiseHandler.AssignManager)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.GET("/orders", orderHandler.GetOrders)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
