package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	IdleThresholdSeconds int // seconds without an input signal before an idle warning

	ContentCdnUrl    string // base URL of the content delivery signing service
	ContentCdnKey    string
	SignedUrlTTLSecs int // lifetime of signed content URLs
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		IdleThresholdSeconds: getEnvInt("IDLE_THRESHOLD_SECONDS", 30),

		ContentCdnUrl:    getEnv("CONTENT_CDN_URL", "http://localhost:9000"),
		ContentCdnKey:    getEnv("CONTENT_CDN_KEY", "defaultSecret"),
		SignedUrlTTLSecs: getEnvInt("SIGNED_URL_TTL_SECONDS", 300),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.ContentCdnKey == "defaultSecret" {
		log.Println("Warning: Using default CONTENT_CDN_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
