package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURL  string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	// optional local overrides; missing file is fine
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURL:  os.Getenv("LINKEDIN_REDIRECT_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
