package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":8080"
	DefaultJWTExpiresIn  = "24h"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "waledger"
	DefaultPGSSLMode     = "disable"
	DefaultChannel       = "whatsapp"
	DefaultLogsLimit     = 50
	DefaultLogsMaxLimit  = 200
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "change-your-password-here"
	EnvConfigPath        = "CONFIG_PATH"
	EnvPostgresDSN       = "WALEDGER_POSTGRES_DSN"
	EnvJWTSecret         = "WALEDGER_JWT_SECRET"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Admin    AdminConfig    `toml:"admin"`
	Auth     AuthConfig     `toml:"auth"`
	Postgres PostgresConfig `toml:"postgres"`
	Ingest   IngestConfig   `toml:"ingest"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// ExpiresIn parses jwt_expires_in.
func (c AuthConfig) ExpiresIn() (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(c.JWTExpiresIn))
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
	MaxConns int32  `toml:"max_conns"`
	// URL, when set, wins over the discrete fields.
	URL string `toml:"url"`
}

// DSN returns a postgres:// URL for the configured database.
func (c PostgresConfig) DSN() string {
	if strings.TrimSpace(c.URL) != "" {
		return strings.TrimSpace(c.URL)
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// DatabaseName is the name reported by the store health check.
func (c PostgresConfig) DatabaseName() string {
	if strings.TrimSpace(c.URL) != "" {
		if u, err := url.Parse(c.URL); err == nil {
			return strings.TrimPrefix(u.Path, "/")
		}
	}
	return c.Database
}

type IngestConfig struct {
	DefaultChannel   string `toml:"default_channel"`
	LogsDefaultLimit int    `toml:"logs_default_limit"`
	LogsMaxLimit     int    `toml:"logs_max_limit"`
	// MonotonicActivity keeps last_user_message_at at the newest timestamp seen.
	MonotonicActivity bool `toml:"monotonic_activity"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Admin: AdminConfig{
			Username: DefaultAdminUsername,
			Password: DefaultAdminPassword,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Ingest: IngestConfig{
			DefaultChannel:    DefaultChannel,
			LogsDefaultLimit:  DefaultLogsLimit,
			LogsMaxLimit:      DefaultLogsMaxLimit,
			MonotonicActivity: true,
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvPostgresDSN)); dsn != "" {
		cfg.Postgres.URL = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required")
	}
	expires, err := c.Auth.ExpiresIn()
	if err != nil {
		return fmt.Errorf("auth.jwt_expires_in: %w", err)
	}
	if expires <= 0 {
		return errors.New("auth.jwt_expires_in must be positive")
	}
	if strings.TrimSpace(c.Postgres.DatabaseName()) == "" {
		return errors.New("postgres.database is required")
	}
	if c.Ingest.LogsMaxLimit < 1 {
		return errors.New("ingest.logs_max_limit must be at least 1")
	}
	return nil
}
