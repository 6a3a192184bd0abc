package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	NEMC     NEMCConfig
	Kakao    KakaoConfig
	Redis    RedisConfig
	Sessions SessionConfig
	OTEL     OTELConfig
}

// ServerConfig holds MCP server configuration
type ServerConfig struct {
	Host      string
	Port      int
	Transport string
	Env       string
}

// NEMCConfig holds the national emergency medical center API configuration
type NEMCConfig struct {
	BaseURL string
	APIKey  string
}

// KakaoConfig holds Kakao Mobility API configuration
type KakaoConfig struct {
	NaviBaseURL string
	RESTAPIKey  string
	AccessToken string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig selects the emergency session store backend
type SessionConfig struct {
	Backend string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      getEnvAsInt("SERVER_PORT", 8080),
			Transport: getEnv("MCP_TRANSPORT", "stdio"),
			Env:       getEnv("APP_ENV", "development"),
		},
		NEMC: NEMCConfig{
			BaseURL: getEnv("NEMC_BASE_URL", "http://apis.data.go.kr/B552657"),
			APIKey:  getEnv("DATA_GO_KR_API_KEY", ""),
		},
		Kakao: KakaoConfig{
			NaviBaseURL: getEnv("KAKAO_NAVI_BASE_URL", "https://apis-navi.kakaomobility.com/v1"),
			RESTAPIKey:  getEnv("KAKAO_REST_API_KEY", ""),
			AccessToken: getEnv("KAKAO_ACCESS_TOKEN", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sessions: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "emergency-finder"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerAddr returns the HTTP listen address for the streamable MCP transport
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
