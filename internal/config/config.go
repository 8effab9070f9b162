package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret sólo es aceptable fuera de producción.
const DefaultSessionSecret = "default-secret-key-change-in-production"

type Config struct {
	App struct {
		// development | production (NODE_ENV por compat con el frontend)
		Env         string `yaml:"env" env:"NODE_ENV"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"app"`

	Server struct {
		Host            string        `yaml:"host" env:"HOST"`
		Port            int           `yaml:"port" env:"PORT"`
		FrontendURL     string        `yaml:"frontend_url" env:"FRONTEND_URL"`
		FrontendURLs    []string      `yaml:"frontend_urls" env:"FRONTEND_URLS" envSeparator:","`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Session struct {
		Secret          string        `yaml:"secret" env:"SESSION_SECRET"`
		CookieName      string        `yaml:"cookie_name"`
		MaxAge          time.Duration `yaml:"max_age"`
		DataTTL         time.Duration `yaml:"data_ttl"`
		CacheDefaultTTL time.Duration `yaml:"cache_default_ttl"`
	} `yaml:"session"`

	Security struct {
		BcryptSaltRounds int `yaml:"bcrypt_salt_rounds" env:"BCRYPT_SALT_ROUNDS"`

		// Límite por IP y ruta en login/signup. Max 0 lo deshabilita.
		RateLimit struct {
			Max    *int          `yaml:"max" env:"AUTH_RATE_LIMIT_MAX"`
			Window time.Duration `yaml:"window" env:"AUTH_RATE_LIMIT_WINDOW"`
		} `yaml:"rate_limit"`
	} `yaml:"security"`

	Storage struct {
		Driver          string        `yaml:"driver" env:"STORAGE_DRIVER"`
		DSN             string        `yaml:"dsn" env:"DATABASE_URL"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		AutoMigrate     bool          `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	} `yaml:"storage"`

	Cache struct {
		Driver   string `yaml:"driver" env:"CACHE_DRIVER"`
		Prefix   string `yaml:"prefix"`
		MaxItems int    `yaml:"max_items" env:"CACHE_MAX_ITEMS"`
		Redis    struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	Metrics struct {
		Enabled *bool `yaml:"enabled" env:"METRICS_ENABLED"`
	} `yaml:"metrics"`
}

// Load lee el YAML (opcional: si path no existe se usan defaults), aplica
// overrides de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config

	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(filepath.Clean(p))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", p, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: defaults + env
		default:
			return nil, fmt.Errorf("config: read %s: %w", p, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.ServiceName == "" {
		c.App.ServiceName = "ameyasuite"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.FrontendURL == "" && len(c.Server.FrontendURLs) == 0 {
		c.Server.FrontendURL = "http://localhost:3001"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Session.Secret == "" {
		c.Session.Secret = DefaultSessionSecret
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "ameyaSuite"
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = 24 * time.Hour
	}
	if c.Session.DataTTL == 0 {
		c.Session.DataTTL = time.Hour
	}
	if c.Session.CacheDefaultTTL == 0 {
		c.Session.CacheDefaultTTL = 300 * time.Second
	}
	if c.Security.BcryptSaltRounds == 0 {
		c.Security.BcryptSaltRounds = 10
	}
	if c.Security.RateLimit.Max == nil {
		n := 20
		c.Security.RateLimit.Max = &n
	}
	if c.Security.RateLimit.Window == 0 {
		c.Security.RateLimit.Window = time.Minute
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.MaxOpenConns == 0 {
		c.Storage.MaxOpenConns = 10
	}
	if c.Storage.MaxIdleConns == 0 {
		c.Storage.MaxIdleConns = 2
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics.Enabled == nil {
		on := true
		c.Metrics.Enabled = &on
	}
}

// Validate verifica combinaciones inválidas. En producción exige un
// SESSION_SECRET propio.
func (c *Config) Validate() error {
	var errs []error

	if r := c.Security.BcryptSaltRounds; r < 4 || r > 31 {
		errs = append(errs, fmt.Errorf("security.bcrypt_salt_rounds must be between 4 and 31, got %d", r))
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn (DATABASE_URL) is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported (memory|postgres)", c.Storage.Driver))
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("cache.driver %q not supported (memory|redis)", c.Cache.Driver))
	}
	if *c.Security.RateLimit.Max < 0 || c.Security.RateLimit.Window < time.Second {
		errs = append(errs, errors.New("security.rate_limit: max must be >= 0 and window >= 1s"))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, errors.New("session.max_age must be positive"))
	}
	if c.IsProduction() {
		if c.Session.Secret == DefaultSessionSecret || len(c.Session.Secret) < 16 {
			errs = append(errs, errors.New("SESSION_SECRET must be set (>=16 chars) in production"))
		}
	}

	return errors.Join(errs...)
}

// IsProduction reporta si NODE_ENV/app.env es production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.App.Env), "production")
}

// Addr arma host:port para http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AllowedOrigins une FRONTEND_URL y FRONTEND_URLS sin duplicados ni "/" final.
func (c *Config) AllowedOrigins() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(s string) {
		s = strings.TrimRight(strings.TrimSpace(s), "/")
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	add(c.Server.FrontendURL)
	for _, u := range c.Server.FrontendURLs {
		add(u)
	}
	return out
}

// AuthRateLimit devuelve el máximo por ventana (0 = deshabilitado).
func (c *Config) AuthRateLimit() (int, time.Duration) {
	if c.Security.RateLimit.Max == nil {
		return 0, c.Security.RateLimit.Window
	}
	return *c.Security.RateLimit.Max, c.Security.RateLimit.Window
}

// MetricsEnabled default true.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}
