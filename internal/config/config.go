package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Database    DatabaseConfig
	LLM         LLMConfig
	APIPort     string
	StoreDriver string // "postgres" or "memory"
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type LLMConfig struct {
	Provider    string // "groq" or "ollama"
	GroqAPIKeys []string
	GroqRPM     float64
	OllamaURL   string
	OllamaModel string
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "cars_db"),
			User:     getEnv("DB_USER", "cars"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "groq"),
			GroqAPIKeys: getEnvList("GROQ_API_KEYS", getEnv("GROQ_API_KEY", "")),
			GroqRPM:     getEnvFloat("GROQ_RPM", 30),
			OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel: getEnv("OLLAMA_MODEL", ""),
		},
		APIPort:     getEnv("API_PORT", "8080"),
		StoreDriver: getEnv("STORE_DRIVER", "postgres"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvList reads a comma-separated list, dropping empty entries.
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
