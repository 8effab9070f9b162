// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Inicialización (una vez en el comando serve):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "development" | "production"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// En services y controllers:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Signup"))
//	log.Info("user created", logger.UserID(u.ID))
//
// WithLogging (middlewares) inyecta un logger con request_id, method y path;
// From(ctx) cae al singleton cuando no hay logger en el contexto.
package logger
