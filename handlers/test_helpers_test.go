package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"retailhub-backend/middleware"
	"retailhub-backend/models"
	"retailhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(
		&models.User{},
		&models.Franchise{},
		&models.Category{},
		&models.Product{},
		&models.FranchiseStock{},
		&models.Order{},
	); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM franchise_stocks")
	testDB.Exec("DELETE FROM products")
	testDB.Exec("DELETE FROM categories")
	testDB.Exec("DELETE FROM franchises")
	testDB.Exec("DELETE FROM users")
	return testDB
}

// seedTestUser creates a user with the given role and returns it along with a valid JWT token.
func seedTestUser(db *gorm.DB, email string, role models.Role, franchiseID *uuid.UUID) (models.User, string) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hashed),
		Name:        "Test User",
		Role:        role,
		FranchiseID: franchiseID,
	}
	db.Create(&user)

	token, _ := utils.GenerateToken(user.ID, user.Email, user.Role, franchiseID)
	return user, token
}

// seedFranchise creates a test franchise.
func seedFranchise(db *gorm.DB, name, email string) models.Franchise {
	franchise := models.Franchise{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Address: models.Address{
			Street:  "12 High Street",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
			Country: "India",
		},
		IsActive: true,
	}
	db.Create(&franchise)
	return franchise
}

// seedManagedFranchise creates a franchise with an assigned order manager and
// returns both plus the manager's token.
func seedManagedFranchise(db *gorm.DB, name, email string) (models.Franchise, models.User, string) {
	franchise := seedFranchise(db, name, email)
	manager, token := seedTestUser(db, "mgr-"+uuid.New().String()[:8]+"@test.com", models.RoleOrderManager, &franchise.ID)
	db.Model(&franchise).Update("order_manager_id", manager.ID)
	franchise.OrderManagerID = &manager.ID
	return franchise, manager, token
}

// seedCategory creates a test category.
func seedCategory(db *gorm.DB, name string) models.Category {
	cat := models.Category{
		ID:   uuid.New(),
		Name: name,
	}
	db.Create(&cat)
	return cat
}

// seedProduct creates a test product.
func seedProduct(db *gorm.DB, name string, categoryID uuid.UUID, price float64) models.Product {
	prod := models.Product{
		ID:             uuid.New(),
		Name:           name,
		CategoryID:     categoryID,
		Price:          price,
		WarehouseStock: 100,
		Publish:        true,
	}
	db.Create(&prod)
	return prod
}

// seedOrder creates an order with the given status and amount.
func seedOrder(db *gorm.DB, userID, franchiseID, productID uuid.UUID, status models.DeliveryStatus, amount float64) models.Order {
	order := models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		FranchiseID:     franchiseID,
		ProductID:       productID,
		Quantity:        1,
		DeliveryAddress: "1 Test Lane",
		DeliveryStatus:  status,
		PaymentStatus:   "paid",
		TotalAmount:     amount,
	}
	db.Create(&order)
	// GORM skips zero-ish values on Create and the column default is
	// 'pending', so pin the status explicitly.
	db.Model(&order).Update("delivery_status", status)
	order.DeliveryStatus = status
	return order
}

// backdateOrder rewrites an order's created_at so date-range and recency
// tests have deterministic timestamps.
func backdateOrder(db *gorm.DB, order models.Order, t time.Time) {
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("created_at", t)
}

// ==================== Router Setup Helpers ====================

// setupAuthRouter sets up routes for auth handler tests.
func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db}

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/profile", authHandler.GetProfile)

	return r
}

// setupUserRouter sets up routes for user handler tests.
func setupUserRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	userHandler := &UserHandler{DB: db}

	api := r.Group("/api")
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.GET("/users/:id", userHandler.GetUser)

	return r
}

// setupFranchiseRouter sets up routes for franchise handler tests.
func setupFranchiseRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	franchiseHandler := NewFranchiseHandler(db)

	api := r.Group("/api")

	managed := api.Group("")
	managed.Use(middleware.AuthMiddleware())
	managed.Use(middleware.AdminOrManagerMiddleware())
	managed.GET("/franchises/:id", franchiseHandler.GetFranchise)
	managed.GET("/franchises/:id/orders", franchiseHandler.GetFranchiseOrders)
	managed.GET("/franchises/:id/stats", franchiseHandler.GetFranchiseStats)
	managed.GET("/franchises/:id/stock", franchiseHandler.GetFranchiseStock)
	managed.PUT("/franchises/:id/stock/:productId", franchiseHandler.UpdateFranchiseStock)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/franchises", franchiseHandler.ListFranchises)
	admin.POST("/franchises", franchiseHandler.CreateFranchise)
	admin.PUT("/franchises/:id", franchiseHandler.UpdateFranchise)
	admin.DELETE("/franchises/:id", franchiseHandler.DeleteFranchise)
	admin.POST("/franchises/assign-manager", franchiseHandler.AssignManager)

	return r
}

// setupCategoryRouter sets up routes for category handler tests.
func setupCategoryRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	categoryHandler := &CategoryHandler{DB: db}

	api := r.Group("/api")
	api.GET("/categories", categoryHandler.GetCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	return r
}

// setupProductRouter sets up routes for product handler tests.
func setupProductRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	productHandler := &ProductHandler{DB: db}

	api := r.Group("/api")
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)

	managed := api.Group("")
	managed.Use(middleware.AuthMiddleware())
	managed.Use(middleware.AdminOrManagerMiddleware())
	managed.PUT("/products/:id/stock", productHandler.UpdateProductStock)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)

	return r
}

// setupOrderRouter sets up routes for order handler tests.
func setupOrderRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	orderHandler := NewOrderHandler(db)

	api := r.Group("/api")

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/orders", orderHandler.CreateOrder)
	protected.GET("/orders/:id", orderHandler.GetOrder)

	managed := api.Group("")
	managed.Use(middleware.AuthMiddleware())
	managed.Use(middleware.AdminOrManagerMiddleware())
	managed.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/orders", orderHandler.GetOrders)

	return r
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
