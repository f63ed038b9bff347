package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

func TestZapLogger_fields(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	l := WrapZap(zap.New(obs))

	l.Error("upload failed",
		errors.New("boom"),
		map[string]interface{}{"key": "universities/x.png"},
		core.Person{ID: "u1", Role: "authenticated"},
	)
	l.Debug("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "upload failed", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "universities/x.png", ctx["key"])
	assert.Equal(t, "u1", ctx["user_id"])
	assert.Equal(t, "authenticated", ctx["user_role"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
