package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a local .env file if present, matching the teacher's
// convention of best-effort local development configuration. A missing
// .env is not an error -- production deployments set real env vars.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using process environment")
	}
}

// RedisURL reads REDIS_URL from the environment, fatal if unset.
func RedisURL() string {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Fatal("REDIS_URL must be set")
	}
	return url
}
