package config

import (
	"os"
)

type Config struct {
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	AccessTokenSecret  string
	RefreshTokenSecret string
	GinMode            string
	Port               string
	OpenAIAPIKey       string
}

func Load() *Config {
	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "taskdesk"),
		DBPassword:         getEnv("DB_PASSWORD", "taskdesk"),
		DBName:             getEnv("DB_NAME", "taskdesk"),
		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", "default-access-secret-change-me"),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", "default-refresh-secret-change-me"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		Port:               getEnv("PORT", "4000"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
