package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ameyasuite/backend/internal/config"
	"github.com/ameyasuite/backend/internal/observability/logger"
)

// NewHTTPServer aplica timeouts y dirección de la config.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// Serve atiende en ln (o en srv.Addr si ln es nil) hasta que ctx se cancela
// y luego hace Shutdown esperando hasta grace. Devuelve el error de listen,
// si lo hubo, o el del shutdown.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	log := logger.L().Named("server")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if ln != nil {
			log.Info("listening", logger.String("addr", ln.Addr().String()))
			err = srv.Serve(ln)
		} else {
			log.Info("listening", logger.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", logger.String("grace", grace.String()))
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn("shutdown incomplete", logger.Err(err))
			return err
		}
		return nil
	})

	return g.Wait()
}

// Run arma la app, sirve hasta que ctx termina y cierra store y caches.
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.L().Warn("cleanup error", logger.Err(cerr))
		}
	}()

	return Serve(ctx, NewHTTPServer(cfg, app.Handler), nil, cfg.Server.ShutdownTimeout)
}
