package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uiforge/uiforge/internal/models"
)

func TestOpenSQLiteInMemoryAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "login_codes", "components"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestBaseModelAssignsUUID(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	user := models.User{Email: "a@x.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NotEmpty(t, user.ID)
}

func TestAutoMigrateNilHandle(t *testing.T) {
	require.Error(t, AutoMigrate(nil))
}
