package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		Driver: "postgres",
		User:   "uiforge",
		Name:   "uiforge",
	})
	require.NoError(t, err)
	require.Equal(t, "host=localhost port=5432 user=uiforge dbname=uiforge sslmode=disable", dsn)
}

func TestBuildPostgresDSNRequiresUserAndName(t *testing.T) {
	_, err := buildPostgresDSN(Config{Driver: "postgres"})
	require.Error(t, err)
}

func TestBuildPostgresDSNHonoursOverride(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "host=db port=5433"})
	require.NoError(t, err)
	require.Equal(t, "host=db port=5433", dsn)
}

func TestBuildMySQLDSNDefaults(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		Driver:   "mysql",
		User:     "uiforge",
		Password: "secret",
		Name:     "uiforge",
	})
	require.NoError(t, err)
	require.Equal(t, "uiforge:secret@tcp(127.0.0.1:3306)/uiforge?charset=utf8mb4&loc=Local&parseTime=True", dsn)
}

func TestBuildMySQLDSNExtraOptionsSorted(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User: "u",
		Name: "db",
		Options: map[string]string{
			"tls": "preferred",
		},
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "tls=preferred")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}
