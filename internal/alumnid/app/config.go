package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer        string // Issuer claim for access tokens (default: alumni-dev)
	Audience      string // Audience claim for access tokens (default: alumni)
	SessionSecret string // Secret for the session cookie; random per start when empty
	CookieSecure  bool   // Mark the session cookie Secure (default: false)

	AccessTTL  time.Duration // Access token lifetime (default: 15m)
	SessionTTL time.Duration // Session lifetime, also the cookie max age (default: 30 days)

	DatabaseFile   string // Path to SQLite database file (default: ./alumni.db)
	PepperFile     string // Path to file containing pepper for password hashing (default: ./pepper)
	SigningKeyFile string // Optional: PEM file for the Ed25519 signing key; ephemeral when empty
	MediaDir       string // Directory for uploaded images (default: ./media)
	Seed           bool   // Load the sample community into an empty database (default: false)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("ALUMNI_ISSUER", "alumni-dev"),
		Audience:      getEnvOrDefault("ALUMNI_AUDIENCE", "alumni"),
		SessionSecret: os.Getenv("ALUMNI_SESSION_SECRET"),
		CookieSecure:  getEnvBoolOrDefault("ALUMNI_COOKIE_SECURE", false),

		AccessTTL:  getEnvDurationOrDefault("ALUMNI_ACCESS_TTL", 15*time.Minute),
		SessionTTL: getEnvDurationOrDefault("ALUMNI_SESSION_TTL", 30*24*time.Hour),

		DatabaseFile:   getEnvOrDefault("ALUMNI_DATABASE_FILE", "alumni.db"),
		PepperFile:     getEnvOrDefault("ALUMNI_PEPPER_FILE", "pepper"),
		SigningKeyFile: os.Getenv("ALUMNI_SIGNING_KEY_FILE"),
		MediaDir:       getEnvOrDefault("ALUMNI_MEDIA_DIR", "media"),
		Seed:           getEnvBoolOrDefault("ALUMNI_SEED", false),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("ALUMNI_PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
