package logger

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLoggerIsNopBeforeInit(t *testing.T) {
	assert.NotNil(t, Logger)
	assert.False(t, Logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestLevelMapping(t *testing.T) {
	tests := []struct {
		input string
		zap   zapcore.Level
		hlog  hlog.Level
	}{
		{"debug", zapcore.DebugLevel, hlog.LevelDebug},
		{"INFO", zapcore.InfoLevel, hlog.LevelInfo},
		{"Warn", zapcore.WarnLevel, hlog.LevelWarn},
		{"error", zapcore.ErrorLevel, hlog.LevelError},
		{"verbose", zapcore.InfoLevel, hlog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseZapLevel(tt.input)
			assert.Equal(t, tt.zap, level)
			assert.Equal(t, tt.hlog, toHlogLevel(level))
		})
	}
}
