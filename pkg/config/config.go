package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// GeminiConfig drives the explanation client. Mock and Disabled both bypass
// the network entirely; Model/APIVersion/Method override the built-in
// configuration fallback chain when set.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	APIVersion string
	Method     string
	Mock       bool
	Disabled   bool
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// PREFERENCE_CACHE_BACKEND=redis swaps the in-process preference
	// cache for the Redis-backed one.
	UseForPreferenceCache bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "SmartShop API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "smartshop"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			BaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:      getEnv("GEMINI_MODEL", ""),
			APIVersion: getEnv("GEMINI_API_VERSION", ""),
			Method:     getEnv("GEMINI_METHOD", ""),
			Mock:       getEnv("GEMINI_MOCK", "") == "1",
			Disabled:   getEnv("GEMINI_DISABLED", "") == "1",
		},
		Redis: RedisConfig{
			RedisHost:             getEnv("REDIS_HOST", "localhost"),
			RedisPort:             getEnv("REDIS_PORT", "6379"),
			RedisPassword:         getEnv("REDIS_PASSWORD", ""),
			RedisDB:               redisDB,
			UseForPreferenceCache: getEnv("PREFERENCE_CACHE_BACKEND", "memory") == "redis",
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
