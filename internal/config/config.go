package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var errDBNameEmpty = errors.New("database name is empty")
var errDBUserEmpty = errors.New("database user is empty")

type AppConfig struct {
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	// .env is a dev convenience; in production everything comes from the
	// environment.
	_ = godotenv.Load()

	c := &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "dev"),
			Port: getEnv("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			Name:     getEnv("DATABASE_NAME", "draftlabs"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			URL:      os.Getenv("DATABASE_URL"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
		},
	}

	if err := buildDatabaseURL(c); err != nil {
		return nil, err
	}
	return c, nil
}

func buildDatabaseURL(c *Config) error {
	if c.Database.URL != "" {
		return nil
	}
	if c.Database.User == "" {
		return errDBUserEmpty
	}
	if c.Database.Name == "" {
		return errDBNameEmpty
	}
	c.Database.URL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
