package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":              "9090",
		"ENVIRONMENT":       "test",
		"API_KEY":           "secret",
		"QUESTIONS_FILE":    "/tmp/questions.yaml",
		"DEFAULT_MODULE_ID": "trajectory",
		"QDRANT_URL":        "localhost:6334",
		"KAFKA_BROKERS":     "kafka-1:9092, kafka-2:9092,",
		"KAFKA_TOPIC":       "assessments",
	}

	for key, value := range testCases {
		os.Setenv(key, value)
	}

	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.IsDevelopment() {
		t.Error("Expected IsDevelopment to be false for the test environment")
	}

	if cfg.APIKey != "secret" {
		t.Errorf("Expected APIKey to be 'secret', got '%s'", cfg.APIKey)
	}

	if cfg.QuestionsFile != "/tmp/questions.yaml" {
		t.Errorf("Expected QuestionsFile to be '/tmp/questions.yaml', got '%s'", cfg.QuestionsFile)
	}

	if cfg.DefaultModuleID != "trajectory" {
		t.Errorf("Expected DefaultModuleID to be 'trajectory', got '%s'", cfg.DefaultModuleID)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "kafka-1:9092" || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("Unexpected KafkaBrokers: %v", cfg.KafkaBrokers)
	}

	if cfg.KafkaTopic != "assessments" {
		t.Errorf("Expected KafkaTopic to be 'assessments', got '%s'", cfg.KafkaTopic)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	vars := []string{
		"PORT", "ENVIRONMENT", "API_KEY", "QUESTIONS_FILE",
		"DEFAULT_MODULE_ID", "QDRANT_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}

	if !cfg.IsDevelopment() {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}

	if cfg.DefaultModuleID != "ktb" {
		t.Errorf("Expected default DefaultModuleID to be 'ktb', got '%s'", cfg.DefaultModuleID)
	}

	if cfg.KafkaBrokers != nil {
		t.Errorf("Expected no Kafka brokers by default, got %v", cfg.KafkaBrokers)
	}

	if cfg.QdrantURL != "" {
		t.Errorf("Expected empty QdrantURL by default, got '%s'", cfg.QdrantURL)
	}
}
