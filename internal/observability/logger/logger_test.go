package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFrom_FallsBackToSingleton(t *testing.T) {
	nop := zap.NewNop()
	Replace(nop)
	assert.Same(t, nop, From(context.Background()))
}

func TestFrom_UsesScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(RequestID("rid-1"))
	ctx := ToContext(context.Background(), scoped)

	From(ctx).Info("hello", Op("Test"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "rid-1", fields["request_id"])
		assert.Equal(t, "Test", fields["op"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"alice@example.com": "a…@e….com",
		" Bob@Mail.Co.UK ":  "b…@m….co.uk",
		"a@x.io":            "a@x.io",
		"":                  "",
		"abc":               "***",
		"no-at-sign":        "n…n",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
	assert.Equal(t, "a…@e….com", Email("alice@example.com").String)
}
