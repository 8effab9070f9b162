package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field es un alias de zap.Field.
type Field = zap.Field

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func DurationMs(d time.Duration) zap.Field { return zap.Int64("duration_ms", d.Milliseconds()) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// ─── Negocio ───

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func CompanyID(v string) zap.Field { return zap.String("company_id", v) }

func CompanySlug(v string) zap.Field { return zap.String("company_slug", v) }

// Email loguea el email enmascarado (ver MaskEmail).
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// SessionID nunca debe recibir el id crudo; usar el hash.
func SessionID(hash string) zap.Field { return zap.String("session_hash", hash) }

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Key(v string) zap.Field { return zap.String("key", v) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }

func String(key, v string) zap.Field { return zap.String(key, v) }

func Int(key string, v int) zap.Field { return zap.Int(key, v) }
