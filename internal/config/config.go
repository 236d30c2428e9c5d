package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is used when neither config nor CHAT_JWT_SECRET supplies one.
const DefaultJWTSecret = "chatfusion-default-secret-change-me"

// Config 애플리케이션 설정
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Presence PresenceConfig `yaml:"presence"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig storage settings. Driver is "sqlite" (single local file) or "mysql".
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Path            string `yaml:"path"`
	DSN             string `yaml:"dsn"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// JWTConfig session token settings
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // hours
}

// RedisConfig optional Redis, used for presence and cross-instance push
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// PresenceConfig presence and typing expiry
type PresenceConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	TypingTTL     time.Duration `yaml:"typing_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// CORSConfig comma separated origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "release"},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "chat_app.db",
			MaxIdleConns:    2,
			MaxOpenConns:    4,
			ConnMaxLifetime: 3600,
		},
		JWT: JWTConfig{ExpiresIn: 24},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Presence: PresenceConfig{
			TTL:           2 * time.Minute,
			TypingTTL:     3 * time.Second,
			SweepInterval: 30 * time.Second,
		},
		CORS: CORSConfig{AllowOrigins: "http://localhost:3000"},
	}
}

// Load reads a YAML config file over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHAT_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("CHAT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("CHAT_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("CHAT_JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("CHAT_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("CHAT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "mysql":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for mysql")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.JWT.ExpiresIn <= 0 {
		c.JWT.ExpiresIn = 24
	}
	if c.Presence.TTL <= 0 || c.Presence.TypingTTL <= 0 || c.Presence.SweepInterval <= 0 {
		return errors.New("presence durations must be positive")
	}
	return nil
}

// UsingDefaultSecret reports whether no signing secret was configured.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWT.Secret == ""
}

// TokenSecret returns the configured secret or the built-in default.
func (c *Config) TokenSecret() string {
	if c.JWT.Secret == "" {
		return DefaultJWTSecret
	}
	return c.JWT.Secret
}

// TokenTTL returns the session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Hour
}
