package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Env         string
	ServerAddr  string
	DatabaseURL string
}

// Load reads configuration from the environment, after a best-effort load of
// a local .env file. DATABASE_URL wins over the discrete DB_* variables.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on environment variables")
	}

	cfg := Config{
		Env:        getenv("APP_ENV", "development"),
		ServerAddr: getenv("SERVER_ADDR", ":8080"),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
		return cfg
	}

	cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_NAME", "inventory"),
	)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
