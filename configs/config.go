package config

import (
	"os"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Port            string
	Environment     string
	APIKey          string
	AdminUsername   string
	AdminPassword   string
	QuestionsFile   string
	DefaultModuleID string
	QdrantURL       string
	QdrantAPIKey    string
	KafkaBrokers    []string
	KafkaTopic      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		APIKey:          getEnv("API_KEY", ""),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		QuestionsFile:   getEnv("QUESTIONS_FILE", "content/questions.yaml"),
		DefaultModuleID: getEnv("DEFAULT_MODULE_ID", "ktb"),
		QdrantURL:       getEnv("QDRANT_URL", ""),
		QdrantAPIKey:    getEnv("QDRANT_API_KEY", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "assessment.complete"),
	}
}

// IsDevelopment reports whether the server runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
