// Package server arma las dependencias del backend a partir de la config y
// corre el http.Server con shutdown ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ameyasuite/backend/internal/cache"
	"github.com/ameyasuite/backend/internal/config"
	"github.com/ameyasuite/backend/internal/domain/repository"
	authctrl "github.com/ameyasuite/backend/internal/http/controllers/auth"
	healthctrl "github.com/ameyasuite/backend/internal/http/controllers/health"
	sessctrl "github.com/ameyasuite/backend/internal/http/controllers/session"
	"github.com/ameyasuite/backend/internal/http/helpers"
	"github.com/ameyasuite/backend/internal/http/router"
	authsvc "github.com/ameyasuite/backend/internal/http/services/auth"
	"github.com/ameyasuite/backend/internal/metrics"
	"github.com/ameyasuite/backend/internal/observability/logger"
	"github.com/ameyasuite/backend/internal/rate"
	"github.com/ameyasuite/backend/internal/security/password"
	"github.com/ameyasuite/backend/internal/session"
	"github.com/ameyasuite/backend/internal/store"
)

// Prefijos de keys dentro del cache configurado. Registros de sesión y datos
// van en clientes separados para que ClearAllCache no toque las sesiones.
const (
	recordsPrefix = "sess"
	dataPrefix    = "cache"
)

// App es el resultado del wiring: el handler raíz más lo que hay que cerrar.
type App struct {
	Handler  http.Handler
	Store    repository.Store
	Sessions *session.Manager
	Services authsvc.Services
	Metrics  *metrics.Metrics // nil si metrics.enabled=false

	limiter authLimiter // nil si el rate limit está deshabilitado
}

type authLimiter interface {
	rate.Limiter
	Close() error
}

// Close libera limiter, sesiones (ambos caches) y store.
func (a *App) Close() error {
	var errs []error
	if a.limiter != nil {
		errs = append(errs, a.limiter.Close())
	}
	if a.Sessions != nil {
		errs = append(errs, a.Sessions.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// Build instancia store, caches, session manager, services, controllers,
// métricas y router. Ante un error a mitad de camino cierra lo ya abierto.
func Build(ctx context.Context, cfg *config.Config) (app *App, err error) {
	log := logger.L().Named("wiring")
	app = &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
			app = nil
		}
	}()

	// 1. Store
	app.Store, err = store.Open(ctx, store.Config{
		Driver:          cfg.Storage.Driver,
		DSN:             cfg.Storage.DSN,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
		AutoMigrate:     cfg.Storage.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring: store: %w", err)
	}
	log.Info("store ready", logger.String("driver", cfg.Storage.Driver))

	// 2. Caches (registros de sesión + datos)
	records, err := openCache(ctx, cfg, recordsPrefix, 0)
	if err != nil {
		return nil, fmt.Errorf("wiring: session cache: %w", err)
	}
	data, err := openCache(ctx, cfg, dataPrefix, cfg.Cache.MaxItems)
	if err != nil {
		_ = records.Close()
		return nil, fmt.Errorf("wiring: data cache: %w", err)
	}
	app.Sessions = session.NewManager(session.Deps{
		Records: records,
		Data:    data,
		Config: session.Config{
			MaxAge:          cfg.Session.MaxAge,
			DataTTL:         cfg.Session.DataTTL,
			CacheDefaultTTL: cfg.Session.CacheDefaultTTL,
		},
	})
	log.Info("session store ready", logger.String("driver", cfg.Cache.Driver))

	// 3. Services
	hasher, err := password.NewBcrypt(cfg.Security.BcryptSaltRounds)
	if err != nil {
		return nil, fmt.Errorf("wiring: hasher: %w", err)
	}
	app.Services = authsvc.NewServices(authsvc.Deps{Store: app.Store, Hasher: hasher})

	// 4. Métricas
	if cfg.MetricsEnabled() {
		reg := prometheus.NewRegistry()
		if app.Metrics, err = metrics.New(reg); err != nil {
			return nil, fmt.Errorf("wiring: metrics: %w", err)
		}
		if err = metrics.RegisterCache(reg, recordsPrefix, records); err != nil {
			return nil, fmt.Errorf("wiring: metrics: %w", err)
		}
		if err = metrics.RegisterCache(reg, dataPrefix, data); err != nil {
			return nil, fmt.Errorf("wiring: metrics: %w", err)
		}
	}

	// 5. Rate limit de login/signup
	if app.limiter, err = newAuthLimiter(cfg); err != nil {
		return nil, fmt.Errorf("wiring: rate limiter: %w", err)
	}

	// 6. Controllers + router
	codec := session.NewCookieCodec(cfg.Session.Secret, cfg.Session.MaxAge)
	authControllers := authctrl.NewControllers(authctrl.Deps{
		Auth:     app.Services.Auth,
		Sessions: app.Sessions,
		Cookies:  codec,
		Cookie: helpers.CookieOptions{
			Name:     cfg.Session.CookieName,
			SameSite: "lax",
			Secure:   cfg.IsProduction(),
			MaxAge:   cfg.Session.MaxAge,
		},
		Production: cfg.IsProduction(),
		Metrics:    app.Metrics,
	})

	deps := router.Deps{
		Auth:    authControllers,
		Session: sessctrl.NewControllers(app.Sessions),
		Health: healthctrl.NewHealthController(
			healthctrl.Check{Name: "store", Pinger: app.Store},
			healthctrl.Check{Name: "cache", Pinger: app.Sessions},
		),
		Sessions:       app.Sessions,
		Cookies:        codec,
		CookieName:     cfg.Session.CookieName,
		Users:          app.Services.Auth,
		AllowedOrigins: cfg.AllowedOrigins(),
		Metrics:        app.Metrics,
	}
	if app.limiter != nil {
		deps.AuthLimiter = app.limiter
	}
	app.Handler = router.New(deps)
	return app, nil
}

// newAuthLimiter usa Redis cuando el cache es Redis (contador compartido
// entre réplicas) y memoria en otro caso.
func newAuthLimiter(cfg *config.Config) (authLimiter, error) {
	limit, window := cfg.AuthRateLimit()
	if limit <= 0 {
		return nil, nil
	}
	if cfg.Cache.Driver != "redis" {
		return rate.NewMemoryLimiter(limit, window), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	prefix := "rl:"
	if cfg.Cache.Prefix != "" {
		prefix = cfg.Cache.Prefix + ":rl:"
	}
	return rate.NewRedisLimiter(client, prefix, limit, window), nil
}

// openCache abre un cliente bajo cfg.Cache.Prefix:name. maxItems sólo aplica
// al driver memory; los registros de sesión se abren sin tope.
func openCache(ctx context.Context, cfg *config.Config, name string, maxItems int) (cache.Client, error) {
	prefix := name
	if cfg.Cache.Prefix != "" {
		prefix = cfg.Cache.Prefix + ":" + name
	}
	return cache.New(ctx, cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   prefix,
		MaxItems: maxItems,
	})
}
