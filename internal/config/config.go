// Package config loads runtime settings from the environment, after reading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"   env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Port     string `env:"PORT"      env-default:"8080"`

	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Media    MediaConfig
	CORS     CORSConfig
}

// DatabaseConfig configures the remote store. An empty URL disables it.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    env-default:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET" env-required:"true"`
}

type CacheConfig struct {
	Path     string `env:"LOCAL_CACHE_PATH"      env-default:"./data/cache"`
	InMemory bool   `env:"LOCAL_CACHE_IN_MEMORY" env-default:"false"`
}

type MediaConfig struct {
	Root      string `env:"MEDIA_ROOT"       env-default:"./data/media"`
	Bucket    string `env:"MEDIA_BUCKET"     env-default:"mood-media"`
	PublicURL string `env:"MEDIA_PUBLIC_URL" env-default:"http://localhost:8080"`
}

type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000"`
}

// Origins splits the comma-separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// RemoteEnabled reports whether a database URL was configured.
func (c *Config) RemoteEnabled() bool { return c.Database.URL != "" }

// Load reads envFile when it exists (variables already set win), then the
// environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be blank"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must be set"))
	}
	if !c.Cache.InMemory && c.Cache.Path == "" {
		errs = append(errs, errors.New("LOCAL_CACHE_PATH must be set unless LOCAL_CACHE_IN_MEMORY is true"))
	}
	if c.Media.Bucket == "" || strings.ContainsAny(c.Media.Bucket, `/\`) {
		errs = append(errs, fmt.Errorf("MEDIA_BUCKET %q must be a single path segment", c.Media.Bucket))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must not be negative"))
	}
	return errors.Join(errs...)
}
