package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendAPI   = "api"
	BackendMongo = "mongo"

	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Mongo configuration, used by the mongo reservation backend.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// "api" forwards reservations to the Haram API, "mongo" serves them from the local store.
	ReservationBackend string `mapstructure:"RESERVATION_BACKEND"`

	SessionStore string        `mapstructure:"SESSION_STORE"`
	SessionTTL   time.Duration `mapstructure:"SESSION_TTL"`

	HaramAPIBaseURL string        `mapstructure:"HARAM_API_BASE_URL"`
	HaramAPITimeout time.Duration `mapstructure:"HARAM_API_TIMEOUT"`
}

var AppConfig Config

// LoadConfig fills AppConfig from config.yaml, the environment and defaults.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load reads the configuration without touching AppConfig.
func Load() (Config, error) {
	v := viper.New()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "haram")
	v.SetDefault("RESERVATION_BACKEND", BackendAPI)
	v.SetDefault("SESSION_STORE", SessionStoreRedis)
	v.SetDefault("SESSION_TTL", "10m")
	v.SetDefault("HARAM_API_BASE_URL", "http://localhost:8081")
	v.SetDefault("HARAM_API_TIMEOUT", "10s")

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ReservationBackend {
	case BackendAPI, BackendMongo:
	default:
		return fmt.Errorf("unknown RESERVATION_BACKEND %q", c.ReservationBackend)
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxRequestsPerMin <= 0 {
		return fmt.Errorf("MAX_REQUESTS_PER_MIN must be positive, got %d", c.MaxRequestsPerMin)
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
