package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Rates    RatesConfig
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ConnectionString builds the lib/pq connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// RatesConfig holds the exchange rate provider settings
type RatesConfig struct {
	BaseURL string
}

// configTmp mirrors the yaml layout; durations come in as strings
// ("15m", "168h") and are parsed afterwards
type configTmp struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		AccessTokenTTL  string `yaml:"access_token_ttl"`
		RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`
	Rates struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"rates"`
}

// Get loads configuration from the yaml file at path (optional) and applies
// environment variable overrides. Docker-style deployments typically set
// only the env vars and pass no file at all.
func Get(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := loadYaml(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured (set auth.jwt_secret or JWT_SECRET)")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "nettrack",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func loadYaml(path string, cfg *Config) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&cfg.Server.Addr, tmp.Server.Addr)
	setString(&cfg.Database.Host, tmp.Database.Host)
	setString(&cfg.Database.Port, tmp.Database.Port)
	setString(&cfg.Database.User, tmp.Database.User)
	setString(&cfg.Database.Password, tmp.Database.Password)
	setString(&cfg.Database.Name, tmp.Database.Name)
	setString(&cfg.Database.SSLMode, tmp.Database.SSLMode)
	setString(&cfg.Auth.JWTSecret, tmp.Auth.JWTSecret)
	setString(&cfg.Rates.BaseURL, tmp.Rates.BaseURL)

	if tmp.Auth.AccessTokenTTL != "" {
		d, err := time.ParseDuration(tmp.Auth.AccessTokenTTL)
		if err != nil {
			return fmt.Errorf("incorrect 'access_token_ttl' param in yaml config: %w", err)
		}
		cfg.Auth.AccessTokenTTL = d
	}
	if tmp.Auth.RefreshTokenTTL != "" {
		d, err := time.ParseDuration(tmp.Auth.RefreshTokenTTL)
		if err != nil {
			return fmt.Errorf("incorrect 'refresh_token_ttl' param in yaml config: %w", err)
		}
		cfg.Auth.RefreshTokenTTL = d
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Server.Addr, "SERVER_ADDR")
	setFromEnv(&cfg.Database.Host, "DB_HOST")
	setFromEnv(&cfg.Database.Port, "DB_PORT")
	setFromEnv(&cfg.Database.User, "DB_USER")
	setFromEnv(&cfg.Database.Password, "DB_PASSWORD")
	setFromEnv(&cfg.Database.Name, "DB_NAME")
	setFromEnv(&cfg.Database.SSLMode, "DB_SSLMODE")
	setFromEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.Rates.BaseURL, "RATES_BASE_URL")
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
