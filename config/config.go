package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Port the HTTP API listens on, ":8080" style.
	Port string

	// LedgerPath is the buntdb file backing the ledger. ":memory:" keeps
	// the ledger in process memory.
	LedgerPath string

	// DatabaseURL is the optional Postgres mirror used by the list
	// endpoints. Empty disables the mirror.
	DatabaseURL string

	GinMode string
}

// Load reads .env (when present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", ":8080"),
		LedgerPath:  getenv("LEDGER_PATH", ":memory:"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		GinMode:     getenv("GIN_MODE", "release"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
