package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT issued by the external identity provider.
	// Either a shared HS256 secret or a JWKS URL for RS256 provider tokens.
	JWTSecret  string
	JWTJWKSURL string

	// Admin
	AdminEmails    string
	AdminSubjects  string
	AdminTokenHash string

	// Catalog
	CatalogPath     string
	CatalogCacheTTL time.Duration

	// Redis (optional catalog cache)
	RedisAddr     string
	RedisPassword string

	// Logging
	LogLevel         string
	LogRetentionDays int

	// Server
	Port        string
	CORSOrigins string
	RateLimit   int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "bjj_tracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTJWKSURL: getEnv("JWT_JWKS_URL", ""),

		AdminEmails:    getEnv("ADMIN_EMAILS", ""),
		AdminSubjects:  getEnv("ADMIN_SUBJECTS", ""),
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		CatalogPath:     getEnv("CATALOG_PATH", ""),
		CatalogCacheTTL: parseDuration(getEnv("CATALOG_CACHE_TTL", "10m")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		RateLimit:   parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "60"), 60),
	}
}

// HasAuth reports whether a token verification method is configured.
func (c *Config) HasAuth() bool {
	return c.JWTSecret != "" || c.JWTJWKSURL != ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
