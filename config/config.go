package config

import (
	"os"
	"strconv"
	"strings"
)

// Storage backends
const (
	StorageFirestore = "firestore"
	StorageMemory    = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Google Cloud
	ProjectID string
	Location  string

	// Server
	Port        string
	Debug       bool
	CORSOrigins []string

	// Logging
	LogLevel  string
	LogFormat string

	// Gemini Model
	GeminiModel string

	// Outbound calls
	HTTPTimeoutSeconds int
	AIServiceURL       string

	// Authentication
	JWTSecret        string
	JWTExpiryHours   int
	JWTRememberHours int
	GoogleClientID   string

	// Storage
	StorageBackend  string
	PhotoBucketName string

	// Label cache
	RedisURL             string
	LabelCacheTTLMinutes int

	// Drafts
	DraftTTLMinutes int

	// PDF export
	ChromePath string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Google Cloud
		ProjectID: getEnv("PROJECT_ID", ""),
		Location:  getEnv("LOCATION", "us-central1"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Debug:       getEnvBool("DEBUG", false),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Gemini Model
		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		// Outbound calls
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		AIServiceURL:       strings.TrimRight(getEnv("AI_SERVICE_URL", "http://localhost:8080"), "/"),

		// Authentication
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiryHours:   getEnvInt("JWT_EXPIRY_HOURS", 24),
		JWTRememberHours: getEnvInt("JWT_REMEMBER_HOURS", 24*30),
		GoogleClientID:   getEnv("GOOGLE_CLIENT_ID", ""),

		// Storage
		StorageBackend:  getEnv("STORAGE_BACKEND", StorageFirestore),
		PhotoBucketName: getEnv("PHOTO_BUCKET_NAME", ""),

		// Label cache
		RedisURL:             getEnv("REDIS_URL", ""),
		LabelCacheTTLMinutes: getEnvInt("LABEL_CACHE_TTL_MINUTES", 24*60),

		// Drafts
		DraftTTLMinutes: getEnvInt("DRAFT_TTL_MINUTES", 120),

		// PDF export
		ChromePath: getEnv("CHROME_PATH", ""),
	}

	return cfg
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageFirestore:
		if c.ProjectID == "" {
			return &ConfigError{Field: "PROJECT_ID", Message: "PROJECT_ID is required for Firestore"}
		}
	case StorageMemory:
	default:
		return &ConfigError{Field: "STORAGE_BACKEND", Message: "STORAGE_BACKEND must be firestore or memory"}
	}

	if c.JWTSecret == "" {
		return &ConfigError{Field: "JWT_SECRET", Message: "JWT_SECRET must not be empty"}
	}
	if c.JWTExpiryHours <= 0 || c.JWTRememberHours <= 0 {
		return &ConfigError{Field: "JWT_EXPIRY_HOURS", Message: "token lifetimes must be positive"}
	}

	return nil
}

// AIEnabled reports whether Vertex AI can be used for labels, translation and analysis
func (c *Config) AIEnabled() bool {
	return c.ProjectID != ""
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
