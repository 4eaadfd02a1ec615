package database

import (
	"fmt"

	"geogateway-backend/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the shared GORM connection. Handlers read DB directly; the
// audit recorder tolerates a nil DB so the gateway can run without
// persistence (tests, degraded deployments).
func Connect(cfg config.DatabaseSettings) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	DB = db
	return nil
}
