package store

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/believe-gautam/travel-planner-api/internal/models"
)

// Open connects to Postgres and ensures the schema exists.
func Open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.Provider{}, &models.Endpoint{}); err != nil {
		return nil, err
	}
	return db, nil
}
