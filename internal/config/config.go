package config

import (
	"fmt"
	"os"
	"time"
)

type DatabaseConfig struct {
	Driver   string // "mysql", "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type FunctionsConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Config struct {
	Port          string
	DB            DatabaseConfig
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	LogLevel      string
	OpenAIAPIKey  string
	Functions     FunctionsConfig
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),
		DB: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "taskuser"),
			Password: getEnv("DB_PASSWORD", "taskpassword"),
			Name:     getEnv("DB_NAME", "team_tasks"),
		},
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		Functions: FunctionsConfig{
			BaseURL: getEnv("FUNCTIONS_URL", ""),
			APIKey:  getEnv("FUNCTIONS_KEY", ""),
			Timeout: getDuration("FUNCTIONS_TIMEOUT", 10*time.Second),
		},
	}
}

// DSN builds the connection string for the configured driver.
func (db DatabaseConfig) DSN() string {
	switch db.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			db.Host, db.Port, db.User, db.Password, db.Name)
	case "sqlite":
		return db.Name + ".db"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.User, db.Password, db.Host, db.Port, db.Name)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
