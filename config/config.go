package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Store       string
	DatabaseURL string

	JWTSecretKey string
	JWTTTL       time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration

	OTELCollectorURL string

	UploadDir          string
	EnableTestData     bool
	CORSAllowedOrigins []string
}

// IsProduction reports whether the service runs with ENV=prod.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "prod")
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads the optional .env file and then the process environment
// without validating, so callers can apply overrides first.
func Read() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env file not loaded: %v", err)
	}

	v := viper.New()
	v.SetDefault("env", "dev")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("store", StorePostgres)
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", time.Minute)
	v.SetDefault("nats_url", "")
	v.SetDefault("nats_conn_timeout", 10*time.Second)
	v.SetDefault("otel_collector_url", "")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("enable_test_data", false)
	v.SetDefault("cors_allowed_origins", "*")
	v.AutomaticEnv()

	cfg := &Config{
		Env:                v.GetString("env"),
		Port:               v.GetString("port"),
		LogLevel:           v.GetString("log_level"),
		Store:              strings.ToLower(v.GetString("store")),
		DatabaseURL:        v.GetString("database_url"),
		JWTSecretKey:       v.GetString("jwt_secret_key"),
		JWTTTL:             v.GetDuration("jwt_ttl"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		NATSURL:            v.GetString("nats_url"),
		NATSConnTimeout:    v.GetDuration("nats_conn_timeout"),
		OTELCollectorURL:   v.GetString("otel_collector_url"),
		UploadDir:          v.GetString("upload_dir"),
		EnableTestData:     v.GetBool("enable_test_data"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
	}
	return cfg
}

// Validate checks the required settings for the selected store.
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("required environment variable DATABASE_URL is not set")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q (want %s or %s)", c.Store, StorePostgres, StoreMemory)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("required environment variable JWT_SECRET_KEY is not set")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
