package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Database.Driver == DriverSQLite {
		// A single connection keeps ":memory:" databases alive and serializes
		// writers the way SQLite expects.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// schema is written in the subset of SQL shared by PostgreSQL and SQLite.
// Timestamps are Unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		password VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cities (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		country VARCHAR(255) NOT NULL,
		slug VARCHAR(255) UNIQUE NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		cost_index INTEGER NOT NULL DEFAULT 0,
		popularity INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id VARCHAR(36) PRIMARY KEY,
		city_id VARCHAR(36) REFERENCES cities(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type VARCHAR(20) NOT NULL,
		avg_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_min INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date BIGINT,
		end_date BIGINT,
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		cover_photo TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stops (
		id VARCHAR(36) PRIMARY KEY,
		trip_id VARCHAR(36) NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		city_id VARCHAR(36) NOT NULL REFERENCES cities(id),
		position INTEGER NOT NULL,
		start_date BIGINT,
		end_date BIGINT,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (trip_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS trip_activities (
		id VARCHAR(36) PRIMARY KEY,
		stop_id VARCHAR(36) NOT NULL REFERENCES stops(id) ON DELETE CASCADE,
		activity_id VARCHAR(36) NOT NULL REFERENCES activities(id),
		position INTEGER NOT NULL,
		scheduled_at BIGINT,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (stop_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS cost_items (
		id VARCHAR(36) PRIMARY KEY,
		trip_id VARCHAR(36) NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		stop_id VARCHAR(36) REFERENCES stops(id) ON DELETE CASCADE,
		category VARCHAR(20) NOT NULL,
		amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
		currency VARCHAR(3) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS public_shares (
		id VARCHAR(36) PRIMARY KEY,
		trip_id VARCHAR(36) UNIQUE NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		slug VARCHAR(64) UNIQUE NOT NULL,
		created_at BIGINT NOT NULL
	)`,
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_activities_city_id ON activities(city_id)",
	"CREATE INDEX IF NOT EXISTS idx_cost_items_trip_id ON cost_items(trip_id)",
	"CREATE INDEX IF NOT EXISTS idx_cities_popularity ON cities(popularity)",
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			// Indexes are not critical
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	return nil
}
