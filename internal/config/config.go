// Package config reads process configuration from the environment once at
// startup. main resolves it and injects the results; nothing else reads env
// vars.
package config

import "os"

// Database driver names accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the resolved process configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DBDriver selects the storage backend: "sqlite" or "postgres".
	DBDriver string

	// DBPath is the sqlite database file (sqlite driver only).
	DBPath string

	// DatabaseURL is the Postgres connection string (postgres driver only).
	DatabaseURL string

	// NATSURL enables event publishing when non-empty.
	NATSURL string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", DriverSQLite),
		DBPath:      getEnv("DB_PATH", "./data/ledger.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		NATSURL:     os.Getenv("NATS_URL"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
