package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"ERROR", LogLevelError},
		{"warn", LogLevelWarn},
		{" debug ", LogLevelDebug},
		{"TRACE", LogLevelTrace},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestLogLevelMapping(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
	assert.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	assert.Equal(t, zapcore.DebugLevel, LogLevelTrace.zapLevel())

	l := NewLogger(LogLevelDebug).Named("test")
	assert.Equal(t, LogLevelDebug, l.GetLevel())
	assert.NotPanics(t, func() { NewNopLogger().Trace("ignored %d", 1) })
}
