package database

import (
	"cardkey_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model the application
// owns. Called at boot and by the test harness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserProfile{},
		&models.Program{},
		&models.AgentPermission{},
		&models.CardKey{},
		&models.Order{},
		&models.BalanceRecord{},
		&models.SubscriptionPackage{},
		&models.RechargeCard{},
	)
}
