package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/config"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 3
	retryDelay      = 5 * time.Second
)

// Open connects to the configured database, retrying postgres connections
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	switch cfg.DatabaseDriver {
	case "", "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if isMemory(cfg.DatabasePath) {
			// every pooled connection would otherwise get its own empty database
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	case "postgres":
		var lastErr error
		for i := 1; i <= connectAttempts; i++ {
			db, err := gorm.Open(postgres.Open(cfg.DatabasePath), gormCfg)
			if err == nil {
				return db, nil
			}
			lastErr = err
			log.Warn("postgres connection failed", zap.Int("attempt", i), zap.Error(err))
			if i < connectAttempts {
				time.Sleep(retryDelay)
			}
		}
		return nil, fmt.Errorf("open postgres after %d attempts: %w", connectAttempts, lastErr)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Game{},
		&models.Translation{},
		&models.Translator{},
		&models.Submission{},
		&models.Notification{},
		&models.APILog{},
		&models.AppConfig{},
	)
}

// Initialize sets up the database connection and runs migrations
func Initialize(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := SeedConfig(db, cfg.AppName); err != nil {
		return nil, fmt.Errorf("seed config: %w", err)
	}
	return db, nil
}

// SeedConfig inserts the configuration row when it is missing
func SeedConfig(db *gorm.DB, appName string) error {
	row := models.AppConfig{ID: models.AppConfigID, AppName: appName}
	return db.Where(models.AppConfig{ID: models.AppConfigID}).FirstOrCreate(&row).Error
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
