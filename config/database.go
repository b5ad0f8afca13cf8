package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/studypal-api/models"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	memoryDSN = "file::memory:?cache=shared"
)

// Connect opens Postgres when DB_URL is set and a shared in-memory sqlite
// database otherwise, then migrates the schema. It returns the storage type
// reported by the status endpoints.
func Connect(env Environment) (*gorm.DB, string, error) {
	if env.DBURL == "" {
		db, err := OpenSQLite(memoryDSN)
		return db, StorageMemory, err
	}

	db, err := gorm.Open(postgres.Open(env.DBURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, "", fmt.Errorf("connect postgres: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, "", err
	}
	return db, StoragePostgres, nil
}

// OpenSQLite opens and migrates a sqlite database. In-memory databases are
// pinned to one connection so every query sees the same data.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.FlashcardSet{}, &models.Flashcard{}, &models.PaymentIntent{})
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
