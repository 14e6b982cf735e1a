// Package config provides configuration management for the app core service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Platform  PlatformConfig
	Assets    AssetsConfig
	Analytics AnalyticsConfig
	Auth      AuthConfig
	Database  DatabaseConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// PlatformConfig describes the runtime this instance serves.
type PlatformConfig struct {
	// OS selects the push provider: "android" routes to FCM, "ios" to APNS.
	OS string
}

// AssetsConfig holds asset cache configuration.
type AssetsConfig struct {
	CacheDir        string
	DownloadTimeout time.Duration
	// Circuit breaker guarding asset downloads
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// AnalyticsConfig holds the server-side analytics credentials that do not
// arrive with the tenant payload.
type AnalyticsConfig struct {
	GA4APISecret string
	ClientID     string
}

// AuthConfig holds API authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKeys map[string]bool
	// AdminKeyHash is a bcrypt hash guarding the reset endpoint.
	AdminKeyHash string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	RequestsTTL  time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
		},
		Platform: PlatformConfig{
			OS: getEnv("PLATFORM_OS", "android"),
		},
		Assets: AssetsConfig{
			CacheDir:                       getEnv("ASSETS_CACHE_DIR", os.TempDir()+"/appcore-assets"),
			DownloadTimeout:                getEnvDuration("ASSETS_DOWNLOAD_TIMEOUT", 30*time.Second),
			CircuitBreakerFailureThreshold: getEnvInt("ASSETS_CB_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("ASSETS_CB_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("ASSETS_CB_TIMEOUT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			GA4APISecret: getEnv("GA4_API_SECRET", ""),
			ClientID:     getEnv("ANALYTICS_CLIENT_ID", ""),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			APIKeys:      parseAPIKeys(os.Getenv("API_KEYS")),
			AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "appcore"),
			RequestsTTL:                    getEnvDuration("MONGODB_REQUESTS_TTL", 90*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
