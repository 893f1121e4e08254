package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTKey      string
	JWTTTLHours int
	SaltRound   int

	SendGridAPIKey string
	EmailSender    string
	EmailFromName  string
	FrontendURL    string

	B2KeyID      string
	B2AppKey     string
	B2BucketName string

	CronKey     string // shared secret for externally triggered job endpoints
	APIBaseURL  string // used by cmd/scheduler to reach the API
	CORSOrigins string

	// client ip header, honoured only for requests from TrustedProxies
	ProxyHeader    string
	TrustedProxies []string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.CronKey == "" {
		log.Println("Warning: CRON_KEY is empty. Job endpoints will reject every request.")
	}
	if AppConfig.SendGridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY is empty. Emails will be logged, not sent.")
	}
}

// FromEnv builds a Config from the current process environment without touching .env.
func FromEnv() *Config {
	return &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "verve"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "verve.db"),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
		SaltRound:   getEnvInt("SALT_ROUND", 10),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("SENDGRID_FROM_EMAIL", "no-reply@vervehub.com"),
		EmailFromName:  getEnv("SENDGRID_FROM_NAME", "Verve Hub"),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "https://vervehub.com"), "/"),

		B2KeyID:      getEnv("B2_KEY_ID", ""),
		B2AppKey:     getEnv("B2_APP_KEY", ""),
		B2BucketName: getEnv("B2_BUCKET_NAME", ""),

		CronKey:     getEnv("CRON_KEY", ""),
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ProxyHeader:    getEnv("PROXY_HEADER", ""),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
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

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
