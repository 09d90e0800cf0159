// Package config loads observatory settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the observatory needs at startup.
type Config struct {
	// DatabaseURL is the Postgres connection string for the managed
	// database, used both for snapshot queries and LISTEN connections.
	DatabaseURL string

	// Channel is the NOTIFY channel the database triggers publish on.
	Channel string

	// SessionLimit caps how many sessions the overview fetches.
	SessionLimit int

	// FeedLimit bounds the live feed list.
	FeedLimit int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		DatabaseURL:  mustGetEnv("DATABASE_URL"),
		Channel:      getEnvOrDefault("OBSERVATORY_CHANNEL", "fox_changes"),
		SessionLimit: getEnvAsIntOrDefault("OBSERVATORY_SESSION_LIMIT", 50),
		FeedLimit:    getEnvAsIntOrDefault("OBSERVATORY_FEED_LIMIT", 100),
	}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
