package logger

import (
	"testing"

	"github.com/decker502/vfx/pkg/config"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{config.LoggingConfig{Level: "loud"}, zapcore.InfoLevel},
		{config.LoggingConfig{}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.cfg)
		if err != nil {
			t.Fatalf("New(%+v) failed: %v", tt.cfg, err)
		}
		if !log.Core().Enabled(tt.want) {
			t.Errorf("New(%+v) does not log at %v", tt.cfg, tt.want)
		}
		if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
			t.Errorf("New(%+v) logs below %v", tt.cfg, tt.want)
		}
		if got := Level(tt.cfg); got != tt.want {
			t.Errorf("Level(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}
