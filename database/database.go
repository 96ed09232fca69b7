package database

import (
	"os"

	"retailhub-backend/logger"
	"retailhub-backend/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=retailhub port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Franchise{},
		&models.Category{},
		&models.Product{},
		&models.FranchiseStock{},
		&models.Order{},
	)
}

// CreateDefaultAdmin seeds an admin account so a fresh install is usable.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@retailhub.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Log.Info("Default admin created", zap.String("email", adminEmail))
	return nil
}
