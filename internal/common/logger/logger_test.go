// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "suggest-outfits"})

	log.WithError(errors.New("boom")).Warn("provider busy", map[string]interface{}{
		"attempt": 2,
		"cause":   errors.New("overloaded"),
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "suggest-outfits", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "overloaded", ctx["cause"])
	assert.EqualValues(t, 2, ctx["attempt"])
}

func TestSchedulerLogger_ArgsToFields(t *testing.T) {
	fields := argsToFields([]any{"job", "advice-reload", "runs", 3, "dangling"})
	assert.Equal(t, "advice-reload", fields["job"])
	assert.Equal(t, 3, fields["runs"])
	assert.Equal(t, "dangling", fields["extra"])

	assert.Nil(t, argsToFields(nil))
}

func TestNewNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.With(map[string]interface{}{"a": 1}).Info("quiet", nil)
	})
}
