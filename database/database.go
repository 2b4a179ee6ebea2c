package database

import (
	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:              false,
		SkipDefaultTransaction:   true,
		DisableNestedTransaction: true,
		Logger:                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		utils.Log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	utils.Log.Info("✅ Database connected successfully")
}

// AllModels lists every table owned by the platform, parents before children.
var AllModels = []interface{}{
	&models.Company{},
	&models.User{},
	&models.Profile{},
	&models.Course{},
	&models.Module{},
	&models.Document{},
	&models.ModuleContent{},
	&models.Enrollment{},
	&models.Quiz{},
	&models.Question{},
	&models.Attempt{},
	&models.Answer{},
	&models.ChatMessage{},
	&models.ChatLog{},
	&models.Notification{},
	&models.Event{},
	&models.Certificate{},
}

func Migrate() error {
	if err := DB.AutoMigrate(AllModels...); err != nil {
		return err
	}
	utils.Log.Info("✅ Database migration successful")
	return nil
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		utils.Log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed.")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		utils.Log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}

	if count > 0 {
		utils.Log.Info("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.Log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	adminUser := models.User{
		Email:          adminEmail,
		HashedPassword: string(hashedPassword),
		Role:           models.RoleSystemAdmin,
		IsActive:       true,
		IsVerified:     true,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		utils.Log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	utils.Log.Info("✅ Admin user seeded successfully")
}
