package canvas

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/opd-ai/go-canvas/internal/render"
	"github.com/opd-ai/go-canvas/internal/script"
	"github.com/opd-ai/go-canvas/internal/widget"
)

// Canvas is the public entry point of go-canvas. It bundles a drawing
// surface, a sandboxed Lua runtime bound to it, an optional Ebiten
// preview window and PNG export behind one handle.
//
// Pixel writes and script executions are safe to interleave with a
// running preview; buffer attachment swaps the surface descriptor
// atomically so a frame never observes a half-updated surface.
type Canvas struct {
	opts    *Options
	logger  Logger
	metrics *Metrics

	root    *widget.Object
	surface *widget.Canvas
	game    *render.Game
	runtime *script.Runtime
	breaker *ReloadBreaker

	mu         sync.Mutex
	watcher    *scriptWatcher
	scriptPath string
	closed     bool
}

// New creates a Canvas from the given options. A nil opts selects
// DefaultOptions. The returned Canvas has an empty surface; attach
// pixel memory with SetBuffer before drawing.
func New(opts *Options) (*Canvas, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts.applyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, categorize(ErrorCategoryConfig, err)
	}

	root := widget.NewObject(nil)
	root.SetLogger(slogFor(opts.Logger))

	surface, err := widget.NewCanvas(root, nil)
	if err != nil {
		return nil, categorize(ErrorCategoryDraw, err)
	}

	runtime, err := script.New(script.RuntimeConfig{
		CPULimit:    opts.ScriptCPULimit,
		MemoryLimit: opts.ScriptMemoryLimit,
		Stdout:      opts.ScriptOutput,
	})
	if err != nil {
		return nil, categorize(ErrorCategoryScript, err)
	}
	if _, err := script.NewBindings(runtime, surface); err != nil {
		runtime.Close()
		return nil, categorize(ErrorCategoryScript, err)
	}

	cfg := render.Config{
		Width:          opts.Width,
		Height:         opts.Height,
		Title:          opts.Title,
		UpdateInterval: opts.UpdateInterval,
		Transparent:    opts.Transparent,
	}
	game := render.NewGame(cfg, surface.Image())

	c := &Canvas{
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		root:    root,
		surface: surface,
		game:    game,
		runtime: runtime,
		breaker: NewReloadBreaker(opts.Breaker),
	}

	c.metrics.SetPixelStatsFunc(func() (int64, int64) {
		return surface.PixelWrites(), surface.DroppedWrites()
	})
	game.SetErrorHandler(func(err error) {
		c.metrics.IncrementErrors()
		c.logger.Error("frame update failed", "error", err)
	})
	if opts.OnFrame != nil {
		game.SetUpdater(updaterFunc(opts.OnFrame))
	}

	return c, nil
}

// updaterFunc adapts a plain function to the render loop's updater
// interface.
type updaterFunc func() error

func (f updaterFunc) Update() error { return f() }

// SetOnFrame replaces the per-frame callback, overriding
// Options.OnFrame. A nil fn disables the callback.
func (c *Canvas) SetOnFrame(fn func() error) {
	if fn == nil {
		c.game.SetUpdater(nil)
		return
	}
	c.game.SetUpdater(updaterFunc(fn))
}

// SetBuffer attaches caller-owned pixel memory to the surface. The
// buffer must hold BufferSize(format, width, height) bytes; the canvas
// never frees it. The previous buffer, if any, is released from the
// surface but remains owned by whoever attached it.
func (c *Canvas) SetBuffer(buf []byte, width, height int, format ColorFormat) error {
	if err := c.surface.SetBuffer(buf, width, height, format); err != nil {
		c.metrics.IncrementErrors()
		return categorize(ErrorCategoryDraw, err)
	}
	c.metrics.IncrementBufferAttaches()
	c.logger.Debug("buffer attached",
		"width", width, "height", height, "bytes", len(buf))
	return nil
}

// SetPixel writes one pixel. Out-of-bounds coordinates are dropped with
// a diagnostic rather than returned as an error.
func (c *Canvas) SetPixel(x, y int, col Color) {
	c.surface.SetPixel(x, y, col)
}

// Pixel reads back one pixel. The second return value is false when the
// coordinates fall outside the attached buffer.
func (c *Canvas) Pixel(x, y int) (Color, bool) {
	return c.surface.Pixel(x, y)
}

// Fill writes col to every pixel of the attached buffer.
func (c *Canvas) Fill(col Color) {
	c.surface.Fill(col)
}

// SetStyle sets one of the surface's styles.
func (c *Canvas) SetStyle(kind StyleKind, s *Style) {
	c.surface.SetStyle(kind, s)
}

// GetStyle returns one of the surface's styles, or nil for a kind the
// surface does not carry.
func (c *Canvas) GetStyle(kind StyleKind) *Style {
	return c.surface.GetStyle(kind)
}

// Descriptor returns the surface's current buffer descriptor.
func (c *Canvas) Descriptor() *BufferDescriptor {
	return c.surface.Descriptor()
}

// Width returns the attached buffer's width in pixels.
func (c *Canvas) Width() int { return c.surface.Width() }

// Height returns the attached buffer's height in pixels.
func (c *Canvas) Height() int { return c.surface.Height() }

// Type returns the surface's component type chain, most derived kind
// last.
func (c *Canvas) Type() []string {
	return c.surface.Object().Type()
}

// ExecuteScript compiles and runs Lua source against the surface. The
// script sees the global canvas table with set_pixel, get_pixel, fill,
// size and rgb.
func (c *Canvas) ExecuteScript(name, source string) error {
	start := time.Now()
	_, err := c.runtime.ExecuteString(name, source)
	c.recordScript(start, err)
	if err != nil {
		return categorize(ErrorCategoryScript, err)
	}
	return nil
}

// LoadScript runs the Lua file at path. With Options.WatchScript set,
// the file is watched and re-run when it changes on disk, with reloads
// of a persistently broken script held back by the circuit breaker.
func (c *Canvas) LoadScript(path string) error {
	start := time.Now()
	_, err := c.runtime.ExecuteFile(path)
	c.recordScript(start, err)
	if err != nil {
		return categorize(ErrorCategoryScript, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scriptPath = path
	if c.opts.WatchScript && c.watcher == nil {
		if err := c.startWatcherLocked(path); err != nil {
			// Hot reload is best-effort; the script itself ran fine.
			c.logger.Warn("script watch unavailable", "path", path, "error", err)
		}
	}
	return nil
}

// startWatcherLocked creates and starts the script watcher. Caller
// holds c.mu.
func (c *Canvas) startWatcherLocked(path string) error {
	w, err := newScriptWatcher(path, c.opts.WatchDebounce,
		func() error { return c.reloadScript(path) },
		func(err error) {
			c.metrics.IncrementErrors()
			c.logger.Error("script watch error", "path", path, "error", err)
		})
	if err != nil {
		return err
	}
	c.watcher = w
	w.Start()
	c.logger.Info("watching script", "path", path)
	return nil
}

// reloadScript re-runs the watched script through the circuit breaker.
func (c *Canvas) reloadScript(path string) error {
	return c.breaker.Execute(func() error {
		start := time.Now()
		_, err := c.runtime.ExecuteFile(path)
		c.recordScript(start, err)
		if err != nil {
			c.logger.Error("script reload failed", "path", path, "error", err)
			return err
		}
		c.metrics.IncrementScriptReloads()
		c.logger.Info("script reloaded", "path", path)
		return nil
	})
}

// recordScript applies one execution's outcome to the metrics.
func (c *Canvas) recordScript(start time.Time, err error) {
	c.metrics.IncrementScriptExecutions()
	c.metrics.RecordScriptLatency(time.Since(start))
	if err != nil {
		c.metrics.IncrementScriptErrors()
		c.metrics.IncrementErrors()
	}
}

// Output returns everything Lua print wrote so far.
func (c *Canvas) Output() string {
	return c.runtime.Output()
}

// RunPreview opens the preview window and blocks until it is closed or
// ctx is cancelled. Cancellation is a clean shutdown and returns nil.
// Ebiten requires this to run on the main goroutine.
func (c *Canvas) RunPreview(ctx context.Context) error {
	if warn := render.CheckTransparencySupport(c.opts.Transparent); warn != "" {
		c.logger.Warn(warn)
	}

	c.game.SetContext(ctx)
	c.metrics.SetPreviewRunning(true)
	defer c.metrics.SetPreviewRunning(false)

	c.logger.Info("preview starting",
		"width", c.opts.Width, "height", c.opts.Height, "title", c.opts.Title)
	if err := c.game.Run(); err != nil {
		return categorize(ErrorCategoryRender, err)
	}
	return nil
}

// FrameMetrics returns the preview loop's frame performance tracker.
func (c *Canvas) FrameMetrics() *render.FrameMetrics {
	return c.game.Metrics()
}

// ExportPNG writes the surface's current contents to w as a PNG,
// upscaled by scale with nearest-neighbor filtering when scale > 1.
func (c *Canvas) ExportPNG(w io.Writer, scale int) error {
	if err := render.ExportPNG(w, c.surface.Image(), scale); err != nil {
		c.metrics.IncrementErrors()
		return categorize(ErrorCategoryRender, err)
	}
	c.metrics.IncrementExports()
	return nil
}

// Metrics returns the metrics collector in use.
func (c *Canvas) Metrics() *Metrics {
	return c.metrics
}

// BreakerStats returns the reload circuit breaker's counters.
func (c *Canvas) BreakerStats() BreakerStats {
	return c.breaker.Stats()
}

// Close stops the script watcher, releases the Lua runtime and deletes
// the component tree. The attached pixel buffer is caller-owned and is
// not touched. Safe to call multiple times.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.watcher != nil {
		c.watcher.Stop()
		c.watcher = nil
	}
	if err := c.runtime.Close(); err != nil {
		return categorize(ErrorCategoryScript, fmt.Errorf("close script runtime: %w", err))
	}
	c.root.Delete()
	c.logger.Debug("canvas closed")
	return nil
}
