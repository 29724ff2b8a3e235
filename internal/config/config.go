package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, e.g. CDN_LISTEN_ADDR.
const EnvPrefix = "CDN"

type Config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	DatabaseURL     string        `mapstructure:"database_url"`
	AuthKey         string        `mapstructure:"auth_key"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ImageHosts      []string      `mapstructure:"image_hosts"`
	WebHosts        []string      `mapstructure:"web_hosts"`
	StaticDir       string        `mapstructure:"static_dir"`
	LogLevel        string        `mapstructure:"log_level"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

var defaults = map[string]interface{}{
	"listen_addr":      ":8080",
	"database_url":     "/data/db/images.db",
	"auth_key":         "",
	"public_base_url":  "http://cdn.localhost:8080",
	"max_upload_bytes": int64(5 << 20),
	"image_hosts":      []string{"cdn.localhost:8080", "cdn.127.0.0.1:8080"},
	"web_hosts":        []string{"localhost:8080", "127.0.0.1:8080"},
	"static_dir":       "./web",
	"log_level":        "info",
	"shutdown_timeout": 5 * time.Second,
}

// aliases lists unprefixed variables accepted for compatibility with
// existing deployments.
var aliases = map[string][]string{
	"auth_key":     {"AUTH_KEY"},
	"database_url": {"DATABASE_URL"},
}

// Load reads configuration from the environment, loading a .env file from
// the working directory first when one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		envs := append([]string{EnvPrefix + "_" + strings.ToUpper(key)}, aliases[key]...)
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	return &cfg, nil
}

// String renders the configuration for startup logs with the secret masked.
func (c *Config) String() string {
	auth := "(empty)"
	if c.AuthKey != "" {
		auth = "********"
	}
	return fmt.Sprintf(
		"listen_addr=%s database=%s auth_key=%s public_base_url=%s max_upload_bytes=%d image_hosts=%v web_hosts=%v static_dir=%s",
		c.ListenAddr, redactDSN(c.DatabaseURL), auth, c.PublicBaseURL, c.MaxUploadBytes,
		c.ImageHosts, c.WebHosts, c.StaticDir,
	)
}

// redactDSN hides the password portion of a URL-style DSN.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":********@" + host
}
