package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	BlobDir     string // local directory for course blobs (structure/lessons JSON, previews)
	BlobBaseURL string // public prefix under which BlobDir is served

	AuthDirectoryURL   string // auth-service base URL for author name lookups
	ReconcilerSchedule string // cron spec for the progress reconciler
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
		Port:   getEnv("PORT", "8082"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "upme_courses"),

		BlobDir:     getEnv("BLOB_DIR", "./blobs"),
		BlobBaseURL: getEnv("BLOB_BASE_URL", "/files"),

		AuthDirectoryURL:   getEnv("AUTH_DIRECTORY_URL", "http://localhost:8081"),
		ReconcilerSchedule: getEnv("RECONCILER_SCHEDULE", "0 3 * * *"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
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
