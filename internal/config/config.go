package config

import (
	"os"
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

	// JWT (validation only; token issuance is handled by the auth service)
	JWTSecret string

	// Root identity and site administrators
	SiteOwnerID  string
	AdminUserIDs string

	// Passport cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PassportTTL   time.Duration

	// Media store (S3-compatible)
	MediaEndpoint  string
	MediaAccessKey string
	MediaSecretKey string
	MediaBucket    string
	MediaUseSSL    bool

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "itimeline_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SiteOwnerID:  getEnv("SITE_OWNER_ID", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,
		PassportTTL:   parseDuration(getEnv("PASSPORT_TTL", "24h")),

		MediaEndpoint:  getEnv("MEDIA_ENDPOINT", ""),
		MediaAccessKey: getEnv("MEDIA_ACCESS_KEY", ""),
		MediaSecretKey: getEnv("MEDIA_SECRET_KEY", ""),
		MediaBucket:    getEnv("MEDIA_BUCKET", "itimeline-media"),
		MediaUseSSL:    getEnv("MEDIA_USE_SSL", "true") == "true",

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
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
		return 24 * time.Hour
	}
	return d
}
