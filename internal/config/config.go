// Package config loads the AgroSim service configuration from an optional
// YAML file, a .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	TLSCert   string `yaml:"tls_cert"`
	TLSKey    string `yaml:"tls_key"`
	StaticDir string `yaml:"static_dir"`
	// AuthDir holds the login pages, served under /auth/ when auth is enabled.
	AuthDir     string `yaml:"auth_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	// ShutdownTimeout is parsed with time.ParseDuration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// TLS reports whether both certificate and key are configured.
func (s ServerConfig) TLS() bool {
	return s.TLSCert != "" && s.TLSKey != ""
}

type AuthConfig struct {
	Enabled   bool    `yaml:"enabled"`
	TokenKey  string  `yaml:"token_key"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per IP
	RateBurst int     `yaml:"rate_burst"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8443",
			StaticDir:       "./static/main",
			AuthDir:         "./static/auth",
			MaxUploadMB:     10,
			ShutdownTimeout: "5s",
		},
		Auth: AuthConfig{
			Enabled:   true,
			RateLimit: 1,
			RateBurst: 3,
		},
		Database: DatabaseConfig{
			URL:          "user=postgres dbname=postgres password=password sslmode=disable",
			MaxOpenConns: 25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (a missing file means defaults), then .env, then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("AGROSIM_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("AGROSIM_TLS_CERT"); v != "" {
		c.Server.TLSCert = v
	}
	if v := os.Getenv("AGROSIM_TLS_KEY"); v != "" {
		c.Server.TLSKey = v
	}
	if v := os.Getenv("AGROSIM_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("AGROSIM_AUTH_DIR"); v != "" {
		c.Server.AuthDir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("TOKEN_KEY"); v != "" {
		c.Auth.TokenKey = v
	}
	if v := os.Getenv("AGROSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AGROSIM_AUTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AGROSIM_AUTH: %w", err)
		}
		c.Auth.Enabled = b
	}
	if v := os.Getenv("AGROSIM_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AGROSIM_RATE_LIMIT: %w", err)
		}
		c.Auth.RateLimit = f
	}
	if v := os.Getenv("AGROSIM_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGROSIM_RATE_BURST: %w", err)
		}
		c.Auth.RateBurst = n
	}
	if v := os.Getenv("AGROSIM_MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGROSIM_MAX_UPLOAD_MB: %w", err)
		}
		c.Server.MaxUploadMB = n
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}
	if c.Auth.Enabled {
		if c.Auth.TokenKey == "" {
			return fmt.Errorf("TOKEN_KEY is required when auth is enabled")
		}
		if c.Auth.RateLimit <= 0 || c.Auth.RateBurst <= 0 {
			return fmt.Errorf("rate limit and burst must be positive")
		}
	}
	return nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
