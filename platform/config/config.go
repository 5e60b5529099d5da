// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RegionDirectoryConfig provides settings for the administrative-divisions
// directory client and its cache.
type RegionDirectoryConfig interface {
	GetRegionDirectoryBaseURL() string
	GetRegionCacheTTL() time.Duration
}

// CatalogConfig provides settings for the item catalog client.
type CatalogConfig interface {
	GetCatalogBaseURL() string
}

// RegistrationConfig provides settings for the registration endpoint client.
type RegistrationConfig interface {
	GetRegistrationBaseURL() string
}

// GeolocationConfig provides settings for the IP geolocation provider.
type GeolocationConfig interface {
	GetGeolocationBaseURL() string
	IsGeolocationEnabled() bool
	GetDefaultLatitude() float64
	GetDefaultLongitude() float64
}

// RedisConfig provides settings for the Redis cache connection.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	IsRedisEnabled() bool
}

// SessionConfig provides settings for the form session registry.
type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSessionSweepInterval() time.Duration
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RegionDirectoryBaseURL string
	RegionCacheTTL         time.Duration

	CatalogBaseURL      string
	RegistrationBaseURL string

	GeolocationBaseURL string
	GeolocationEnabled bool
	DefaultLatitude    float64
	DefaultLongitude   float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool { return c.CORSAllowCreds }

func (c *Config) GetRegionDirectoryBaseURL() string { return c.RegionDirectoryBaseURL }
func (c *Config) GetRegionCacheTTL() time.Duration { return c.RegionCacheTTL }

func (c *Config) GetCatalogBaseURL() string { return c.CatalogBaseURL }
func (c *Config) GetRegistrationBaseURL() string { return c.RegistrationBaseURL }

func (c *Config) GetGeolocationBaseURL() string { return c.GeolocationBaseURL }
func (c *Config) IsGeolocationEnabled() bool { return c.GeolocationEnabled }
func (c *Config) GetDefaultLatitude() float64 { return c.DefaultLatitude }
func (c *Config) GetDefaultLongitude() float64 { return c.DefaultLongitude }

func (c *Config) GetRedisAddr() string { return c.RedisAddr }
func (c *Config) GetRedisPassword() string { return c.RedisPassword }
func (c *Config) GetRedisDB() int { return c.RedisDB }
func (c *Config) IsRedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetSessionSweepInterval() time.Duration { return c.SessionSweepInterval }

// Load reads configuration from the environment, loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		RegionDirectoryBaseURL: getEnv("REGION_DIRECTORY_BASE_URL", "https://servicodados.ibge.gov.br/api/v1/localidades"),
		RegionCacheTTL:         mustDuration(getEnv("REGION_CACHE_TTL", "24h")),

		CatalogBaseURL:      getEnv("CATALOG_BASE_URL", "http://localhost:3333"),
		RegistrationBaseURL: getEnv("REGISTRATION_BASE_URL", "http://localhost:3333"),

		GeolocationBaseURL: getEnv("GEOLOCATION_BASE_URL", ""),
		GeolocationEnabled: getEnv("GEOLOCATION_BASE_URL", "") != "",
		DefaultLatitude:    mustFloat(getEnv("DEFAULT_LATITUDE", "0")),
		DefaultLongitude:   mustFloat(getEnv("DEFAULT_LONGITUDE", "0")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       mustInt(getEnv("REDIS_DB", "0")),

		SessionTTL:           mustDuration(getEnv("SESSION_TTL", "30m")),
		SessionSweepInterval: mustDuration(getEnv("SESSION_SWEEP_INTERVAL", "5m")),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
