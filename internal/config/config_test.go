package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "gt_session", cfg.Auth.CookieName)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=password dbname=globetrotter sslmode=disable",
		cfg.Database.GetDSN())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", cfg.Database.GetDSN())
	assert.True(t, cfg.Auth.CookieSecure)
}

func TestLoadConfigRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateRejectsWeakBcryptCost(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BCRYPT_COST", "4")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestSQLiteDSNKeepsExistingParams(t *testing.T) {
	db := DatabaseConfig{Driver: DriverSQLite, SQLitePath: "file:trips.db?cache=shared"}

	assert.Equal(t, "file:trips.db?cache=shared&_pragma=foreign_keys(1)", db.GetDSN())
}

func TestSetupDatabaseEnablesSQLiteForeignKeys(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: ":memory:"}}

	db, err := SetupDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)

	_, err = db.Exec(`INSERT INTO stops (id, trip_id, city_id, position) VALUES ('s1', 'no-trip', 'no-city', 0)`)
	assert.Error(t, err)
}
