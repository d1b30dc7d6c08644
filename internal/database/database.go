package database

import (
	"log"
	"os"
	"time"

	"gamearena/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Config returns the gorm settings shared by every connection.
func Config() *gorm.Config {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}
}

// Connect opens the postgres connection and runs migrations.
func Connect(dsn string, log *zap.Logger) {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database migrated successfully")
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.GameRoom{},
		&models.Registration{},
		&models.StoreItem{},
		&models.ChatMessage{},
	)
}
