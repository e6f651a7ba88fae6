// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	Addr          string
	DatabaseURL   string
	SQLitePath    string
	LogLevel      string
	RecordBonus   int
	HistoryWindow int
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return Config{
		Addr:          env("ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("TAIJYU_DB_PATH"),
		LogLevel:      env("LOG_LEVEL", "info"),
		RecordBonus:   envInt("RECORD_BONUS", 10),
		HistoryWindow: envInt("HISTORY_WINDOW", 20),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
