package canvas

import (
	"fmt"
	"io"
	"time"
)

// Options configures a Canvas instance. The zero value is not usable;
// start from DefaultOptions and override fields as needed.
type Options struct {
	// Width is the preview window width in pixels.
	Width int
	// Height is the preview window height in pixels.
	Height int
	// Title is the preview window title.
	Title string
	// UpdateInterval is the time between frame callback invocations
	// while the preview runs.
	UpdateInterval time.Duration
	// Transparent enables preview window transparency. On Linux this
	// requires a running compositor; a warning is logged when one is
	// not detected.
	Transparent bool

	// ScriptCPULimit is the Lua instruction budget per execution.
	// 0 means unlimited.
	ScriptCPULimit uint64
	// ScriptMemoryLimit is the Lua allocation budget in bytes.
	// 0 means unlimited.
	ScriptMemoryLimit uint64
	// ScriptOutput receives Lua print output. If nil, output is only
	// captured internally and available via Output().
	ScriptOutput io.Writer

	// WatchScript enables hot reloading of the script passed to
	// LoadScript when it changes on disk.
	WatchScript bool
	// WatchDebounce is the quiet period before a changed script is
	// reloaded. Zero selects DefaultWatchDebounce.
	WatchDebounce time.Duration
	// Breaker configures the reload circuit breaker. Zero values select
	// DefaultBreakerConfig.
	Breaker BreakerConfig

	// OnFrame, if set, runs at every UpdateInterval while the preview
	// is open, typically to redraw the surface.
	OnFrame func() error

	// Logger receives diagnostics. If nil, DefaultLogger() is used.
	Logger Logger
	// Metrics collects operational counters. If nil, a private instance
	// is created.
	Metrics *Metrics
}

// DefaultOptions returns Options with sensible default values: a
// 400x300 window updated 30 times per second and the default script
// resource limits.
func DefaultOptions() *Options {
	return &Options{
		Width:             400,
		Height:            300,
		Title:             "go-canvas",
		UpdateInterval:    time.Second / 30,
		ScriptCPULimit:    10_000_000,
		ScriptMemoryLimit: 50 * 1024 * 1024,
	}
}

// Validate checks the options for values that cannot be defaulted away.
func (o *Options) Validate() error {
	if o.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", o.Width)
	}
	if o.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", o.Height)
	}
	return nil
}

// applyDefaults fills unset fields in place.
func (o *Options) applyDefaults() {
	if o.Title == "" {
		o.Title = "go-canvas"
	}
	if o.UpdateInterval <= 0 {
		o.UpdateInterval = time.Second / 30
	}
	if o.WatchDebounce <= 0 {
		o.WatchDebounce = DefaultWatchDebounce
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
}
