package config

import (
	"fmt"
	"os"
	"strconv"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	Port            string
	Database        DatabaseConfig
	JWTSecret       string
	Environment     string
	BrowserHeadless bool
	LLM             LLMConfig
}

// LLMConfig is the server-level fallback for users who have not stored
// their own API credentials.
type LLMConfig struct {
	Provider  string
	OpenAIKey string
	GroqKey   string
}

// Key returns the fallback API key for the configured provider, or "" when
// no fallback is set.
func (c LLMConfig) Key() string {
	if c.Provider == "groq" {
		return c.GroqKey
	}
	return c.OpenAIKey
}

func GetDatabaseConfig() DatabaseConfig {
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	password := getEnv("DB_PASSWORD", "")

	if password == "" {
		fmt.Println("⚠️  Warning: DB_PASSWORD environment variable is not set.")
	}

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "postgres"),
		Password: password,
		DBName:   getEnv("DB_NAME", "jobfill"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetAppConfig() AppConfig {
	// Run the browser headed by setting BROWSER_HEADLESS=false when
	// debugging fill runs locally.
	headless, err := strconv.ParseBool(getEnv("BROWSER_HEADLESS", "true"))
	if err != nil {
		headless = true
	}

	return AppConfig{
		Port:            getEnv("PORT", "8081"),
		Database:        GetDatabaseConfig(),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		BrowserHeadless: headless,
		LLM: LLMConfig{
			Provider:  getEnv("LLM_PROVIDER", "openai"),
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			GroqKey:   getEnv("GROQ_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
