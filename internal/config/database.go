package config

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"supply_chain/internal/logger"
	"supply_chain/internal/models"
)

// InitDB opens the database described by cfg and migrates the schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN())
	default:
		dialector = postgres.Open(cfg.Database.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.GormLogger(cfg.Database.SlowQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table, parents first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Manager{},
		&models.Store{},
		&models.Driver{},
		&models.Route{},
		&models.Truck{},
		&models.TruckSchedule{},
		&models.DriverAssistant{},
		&models.Orders{},
	)
}
