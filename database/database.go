package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/acme/inventory-service/config"
	"github.com/acme/inventory-service/models"
)

// Open connects to PostgreSQL and verifies the connection with a ping.
// TranslateError makes constraint violations surface as gorm's sentinel
// errors, which the repositories rely on to classify failures.
func Open(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for both tables, including the
// unique name indexes and the cascading foreign key on products.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}
