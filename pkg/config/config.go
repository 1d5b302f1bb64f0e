// Package config loads the registry service configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Store backends for the claims registry.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Authentication modes.
const (
	AuthModeJWT    = "jwt"
	AuthModeEIP191 = "eip191"
)

// Environment variables that override secrets from the config file.
const (
	EnvHMACSecret       = "REGISTRY_AUTH_HMAC_SECRET"
	EnvDatabasePassword = "REGISTRY_DATABASE_PASSWORD"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Registry   RegistryConfig   `yaml:"registry"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Auth       AuthConfig       `yaml:"auth"`
	Offchain   OffchainConfig   `yaml:"offchain"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"claims_registry"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-full"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	URL          string        `yaml:"url"`
	KeyPrefix    string        `yaml:"key_prefix" default:"claims:"`
	PoolSize     int           `yaml:"pool_size" default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"3s"`
}

// KafkaConfig contains settings of the claim event publisher
type KafkaConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Brokers  []string `yaml:"brokers" validate:"required_if=Enabled true"`
	Topic    string   `yaml:"topic" default:"claims.events"`
	ClientID string   `yaml:"client_id" default:"claims-registry"`
}

// RegistryConfig contains claims registry settings
type RegistryConfig struct {
	MaxFingerprintLen int    `yaml:"max_fingerprint_len" default:"6" validate:"min=1"`
	Store             string `yaml:"store" default:"memory" validate:"oneof=memory postgres redis"`
}

// LedgerConfig contains settings of the block producing host
type LedgerConfig struct {
	ChainID       string        `yaml:"chain_id" default:"claims-local"`
	BlockInterval time.Duration `yaml:"block_interval" default:"6s" validate:"gt=0"`
	PersistHeight bool          `yaml:"persist_height"`
}

// AuthConfig contains caller authentication settings
type AuthConfig struct {
	Mode       string        `yaml:"mode" default:"jwt" validate:"oneof=jwt eip191"`
	HMACSecret string        `yaml:"hmac_secret"`
	JWKSURL    string        `yaml:"jwks_url"`
	Issuer     string        `yaml:"issuer" default:"claims-registry"`
	TokenTTL   time.Duration `yaml:"token_ttl" default:"1h"`
}

// OffchainConfig contains settings of the offchain worker
type OffchainConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Endpoint   string        `yaml:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" default:"5s"`
	MaxRetries uint64        `yaml:"max_retries" default:"3"`
	Account    string        `yaml:"account" default:"offchain-worker"`
	ServerURL  string        `yaml:"server_url" validate:"omitempty,url"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `yaml:"enabled" default:"true"`
	MetricsPort int  `yaml:"metrics_port" default:"9090"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Config from YAML, applying defaults, environment overrides and validation.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvHMACSecret); v != "" {
		cfg.Auth.HMACSecret = v
	}
	if v := os.Getenv(EnvDatabasePassword); v != "" {
		cfg.Database.Password = v
	}
}

// maxOffchainFingerprintLen is the blake2b-512 digest size, the longest fingerprint
// the offchain worker can derive.
const maxOffchainFingerprintLen = 64

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	if cfg.Registry.Store == StorePostgres && !cfg.Database.Enabled() {
		return errors.New("database.host is required for the postgres store")
	}
	if cfg.Ledger.PersistHeight && !cfg.Database.Enabled() {
		return errors.New("database.host is required to persist the ledger height")
	}
	if cfg.Registry.Store == StoreRedis && cfg.Redis.URL == "" {
		return errors.New("redis.url is required for the redis store")
	}
	if cfg.Auth.Mode == AuthModeJWT && cfg.Auth.HMACSecret == "" && cfg.Auth.JWKSURL == "" {
		return errors.New("auth.hmac_secret or auth.jwks_url is required for jwt auth")
	}
	if cfg.Offchain.Enabled && cfg.Auth.Mode != AuthModeJWT {
		return errors.New("the offchain worker requires jwt auth")
	}
	if cfg.Offchain.Enabled && cfg.Auth.HMACSecret == "" {
		return errors.New("auth.hmac_secret is required to sign offchain worker submissions")
	}
	if cfg.Offchain.Enabled && cfg.Registry.MaxFingerprintLen > maxOffchainFingerprintLen {
		return fmt.Errorf("registry.max_fingerprint_len must not exceed %d when the offchain worker is enabled, got %d",
			maxOffchainFingerprintLen, cfg.Registry.MaxFingerprintLen)
	}
	return nil
}
