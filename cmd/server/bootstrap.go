package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uiforge/uiforge/internal/app"
	"github.com/uiforge/uiforge/internal/app/maintenance"
	"github.com/uiforge/uiforge/internal/database"
	"github.com/uiforge/uiforge/internal/services"
	"github.com/uiforge/uiforge/pkg/logger"
)

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.DatabaseSettings()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to access underlying database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}

// startMaintenance wires the periodic login code sweep when enabled.
func startMaintenance(cfg *app.Config, db *gorm.DB) (*maintenance.Cleaner, error) {
	if !cfg.Maintenance.Enabled {
		return nil, nil
	}

	otp, err := services.NewOTPService(db, nil, cfg.Auth.OTPServiceOptions()...)
	if err != nil {
		return nil, err
	}

	cleaner := maintenance.NewCleaner(otp, maintenance.WithSweepSchedule(cfg.Maintenance.SweepSpec))
	if err := cleaner.Start(); err != nil {
		return nil, err
	}
	return cleaner, nil
}
