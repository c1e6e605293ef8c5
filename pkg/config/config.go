// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendDynamoDB = "dynamodb"
)

// Config holds all application configuration.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	HTTPPort    string

	StoreBackend string
	BoltPath     string

	AccountsTable  string
	PendingTable   string
	ProcessedTable string

	SQSQueueURL string

	RejectDuplicates   bool
	MaxConflictRetries int
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServiceName:        getEnv("SERVICE_NAME", "onecard-rewards"),
		Environment:        getEnv("SERVICE_ENV", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
		BoltPath:           getEnv("BOLT_PATH", "./rewards.db"),
		AccountsTable:      os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME"),
		PendingTable:       os.Getenv("DYNAMODB_PENDING_TABLE_NAME"),
		ProcessedTable:     os.Getenv("DYNAMODB_PROCESSED_TABLE_NAME"),
		SQSQueueURL:        os.Getenv("SQS_QUEUE_URL"),
		RejectDuplicates:   getEnvBool("REJECT_DUPLICATE_TRANSACTIONS", false),
		MaxConflictRetries: getEnvInt("MAX_CONFLICT_RETRIES", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("BOLT_PATH is required for the bolt backend")
		}
	case BackendDynamoDB:
		if c.AccountsTable == "" || c.PendingTable == "" || c.ProcessedTable == "" {
			return fmt.Errorf("one or more DynamoDB table name environment variables are not set")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.MaxConflictRetries < 0 {
		return fmt.Errorf("MAX_CONFLICT_RETRIES must not be negative")
	}
	return nil
}

// getEnv gets an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns the default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
