package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig Postgres connection settings for the postgres store backend.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds a lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis connection settings for the redis store backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig broker settings for the alert outcome stream.
type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	TopicPrefix string
}

const (
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"

	MinSearchRadiusMeters = 3000
	MaxSearchRadiusMeters = 4000
)

// Config safepulse client configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// Remote profile/alert service
	API struct {
		BaseURL string
		Timeout time.Duration
	}

	// Local persisted store
	Store struct {
		Backend string // "redis" or "postgres"
		Key     string // single record key, "user"
	}

	// Nearby place search provider
	Places struct {
		BaseURL      string
		APIKey       string
		RadiusMeters int
		Timeout      time.Duration
	}

	// Static device fix; Configured=false means no geolocation capability
	Location struct {
		Configured bool
		Lat        float64
		Lng        float64
		Accuracy   float64
	}

	Dispatch struct {
		FallbackCall  bool
		FallbackDelay time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	if cfg.Database.Port, err = getEnvInt("DB_PORT", 5432); err != nil {
		return nil, err
	}
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "safepulse")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = 4
	cfg.Database.MaxIdle = 2

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if cfg.MQTT.Enabled, err = getEnvBool("MQTT_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "safepulse-client")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = 1
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "safepulse")

	cfg.API.BaseURL = getEnv("SAFEPULSE_API_URL", "http://localhost:8000")
	if cfg.API.Timeout, err = getEnvDuration("SAFEPULSE_API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	cfg.Store.Backend = getEnv("STORE_BACKEND", StoreBackendRedis)
	if cfg.Store.Backend != StoreBackendRedis && cfg.Store.Backend != StoreBackendPostgres {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q",
			cfg.Store.Backend, StoreBackendRedis, StoreBackendPostgres)
	}
	cfg.Store.Key = getEnv("STORE_KEY", "user")

	cfg.Places.BaseURL = getEnv("PLACES_BASE_URL", "https://maps.googleapis.com")
	cfg.Places.APIKey = getEnv("PLACES_API_KEY", "")
	if cfg.Places.RadiusMeters, err = getEnvInt("PLACES_RADIUS_METERS", MaxSearchRadiusMeters); err != nil {
		return nil, err
	}
	if cfg.Places.RadiusMeters < MinSearchRadiusMeters || cfg.Places.RadiusMeters > MaxSearchRadiusMeters {
		return nil, fmt.Errorf("PLACES_RADIUS_METERS must be between %d and %d, got %d",
			MinSearchRadiusMeters, MaxSearchRadiusMeters, cfg.Places.RadiusMeters)
	}
	if cfg.Places.Timeout, err = getEnvDuration("PLACES_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	lat, lng := os.Getenv("LOCATION_LAT"), os.Getenv("LOCATION_LNG")
	if lat != "" && lng != "" {
		cfg.Location.Configured = true
		if cfg.Location.Lat, err = parseFloat("LOCATION_LAT", lat); err != nil {
			return nil, err
		}
		if cfg.Location.Lng, err = parseFloat("LOCATION_LNG", lng); err != nil {
			return nil, err
		}
		if cfg.Location.Accuracy, err = getEnvFloat("LOCATION_ACCURACY", 25); err != nil {
			return nil, err
		}
	}

	if cfg.Dispatch.FallbackCall, err = getEnvBool("DISPATCH_FALLBACK_CALL", true); err != nil {
		return nil, err
	}
	if cfg.Dispatch.FallbackDelay, err = getEnvDuration("DISPATCH_FALLBACK_DELAY", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.Dispatch.FallbackDelay <= 0 {
		return nil, fmt.Errorf("DISPATCH_FALLBACK_DELAY must be positive, got %s", cfg.Dispatch.FallbackDelay)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return parseFloat(key, value)
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
