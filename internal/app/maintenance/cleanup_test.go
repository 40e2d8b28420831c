package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uiforge/uiforge/internal/database"
	"github.com/uiforge/uiforge/internal/models"
	"github.com/uiforge/uiforge/internal/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestCleanerRunOnce(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	otp, err := services.NewOTPService(db, nil, services.WithOTPClock(func() time.Time { return now }))
	require.NoError(t, err)

	expired := models.LoginCode{
		Identifier: "stale@example.com",
		CodeHash:   "hash-stale",
		IssuedAt:   now.Add(-20 * time.Minute),
		ExpiresAt:  now.Add(-10 * time.Minute),
	}
	active := models.LoginCode{
		Identifier: "fresh@example.com",
		CodeHash:   "hash-fresh",
		IssuedAt:   now,
		ExpiresAt:  now.Add(10 * time.Minute),
	}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&active).Error)

	cleaner := NewCleaner(otp)
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var remaining []models.LoginCode
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, "fresh@example.com", remaining[0].Identifier)
}

func TestCleanerRunOnceWithoutService(t *testing.T) {
	cleaner := NewCleaner(nil)
	require.NoError(t, cleaner.RunOnce(context.Background()))
	require.NoError(t, cleaner.Start())
}

func TestCleanerStartSchedulesSweep(t *testing.T) {
	db := openTestDB(t)
	otp, err := services.NewOTPService(db, nil)
	require.NoError(t, err)

	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	cleaner := NewCleaner(otp, WithCron(scheduler), WithSweepSchedule("@every 1h"))

	require.NoError(t, cleaner.Start())
	require.Len(t, scheduler.Entries(), 1)

	<-cleaner.Stop().Done()
}
