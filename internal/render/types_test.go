package render

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Errorf("default size = %dx%d, want positive", cfg.Width, cfg.Height)
	}
	if cfg.Title == "" {
		t.Error("default title should not be empty")
	}
	if cfg.UpdateInterval <= 0 {
		t.Error("default update interval should be positive")
	}
	if cfg.Transparent {
		t.Error("transparency should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -5 }, true},
		{"zero interval ok", func(c *Config) { c.UpdateInterval = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameMetrics(t *testing.T) {
	fm := NewFrameMetrics(time.Second)

	fm.RecordFrame(10 * time.Millisecond)
	fm.RecordFrame(20 * time.Millisecond)
	fm.RecordFrame(30 * time.Millisecond)

	if got := fm.FrameCount(); got != 3 {
		t.Errorf("FrameCount() = %d, want 3", got)
	}
	if got := fm.LastFrameTime(); got != 30*time.Millisecond {
		t.Errorf("LastFrameTime() = %v, want 30ms", got)
	}
	if got := fm.MinFrameTime(); got != 10*time.Millisecond {
		t.Errorf("MinFrameTime() = %v, want 10ms", got)
	}
	if got := fm.MaxFrameTime(); got != 30*time.Millisecond {
		t.Errorf("MaxFrameTime() = %v, want 30ms", got)
	}
	if got := fm.AverageFrameTime(); got != 20*time.Millisecond {
		t.Errorf("AverageFrameTime() = %v, want 20ms", got)
	}
}

func TestFrameMetricsEmpty(t *testing.T) {
	fm := NewFrameMetrics(0)

	if got := fm.MinFrameTime(); got != 0 {
		t.Errorf("MinFrameTime() with no frames = %v, want 0", got)
	}
	if got := fm.AverageFrameTime(); got != 0 {
		t.Errorf("AverageFrameTime() with no frames = %v, want 0", got)
	}
	if got := fm.FPS(); got != 0 {
		t.Errorf("FPS() with no frames = %v, want 0", got)
	}
}
