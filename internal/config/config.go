package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// MongoDB Configuration
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	PublicURL        string

	// Admin users allowed on the management API ("user:password" pairs)
	AdminUsers map[string]string

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// Checker Configuration
	SchedulerEnabled bool
	CheckSchedule    string
	LockFilePath     string

	// Email Alerts Configuration
	EnableEmailAlerts bool
	MailFrom          string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// SMS Alerts Configuration
	EnableSMSAlerts         bool
	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioSenderPhoneNumber string

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// MongoDB
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017/server_patrol?authSource=admin"),
		MongoDatabase: getEnv("MONGO_DATABASE", "server_patrol"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:8080"),

		// Admin users
		AdminUsers: getUsersEnv("ADMIN_USERS"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Checker
		SchedulerEnabled: getBoolEnv("SCHEDULER_ENABLED", true),
		CheckSchedule:    getEnv("CHECK_SCHEDULE", "* * * * *"),
		LockFilePath:     getEnv("LOCK_FILE_PATH", "storage/.running"),

		// Email alerts
		EnableEmailAlerts: getBoolEnv("ENABLE_EMAIL_ALERTS", false),
		MailFrom:          getEnv("MAIL_FROM", "alerts@localhost"),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		// SMS alerts
		EnableSMSAlerts:         getBoolEnv("ENABLE_SMS_ALERTS", false),
		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioSenderPhoneNumber: getEnv("TWILIO_SENDER_PHONE_NUMBER", ""),

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}

// getUsersEnv parses a comma-separated list of "user:password" pairs.
func getUsersEnv(key string) map[string]string {
	users := make(map[string]string)
	value := os.Getenv(key)
	if value == "" {
		return users
	}

	for _, pair := range strings.Split(value, ",") {
		user, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" {
			log.Printf("Warning: Invalid user entry in %s, expected user:password", key)
			continue
		}
		users[user] = password
	}

	return users
}
