package canvas

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides application-level metrics collection for go-canvas.
// It uses Go's expvar package for exposition, which can be accessed via
// the /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := canvas.NewMetrics()
//	metrics.IncrementScriptExecutions()
//	metrics.RecordScriptLatency(2 * time.Millisecond)
//
//	// For HTTP exposition, import expvar's HTTP handler:
//	// import _ "expvar"
//	// This registers /debug/vars automatically.
type Metrics struct {
	// Counters
	bufferAttaches   atomic.Int64
	scriptExecutions atomic.Int64
	scriptErrors     atomic.Int64
	scriptReloads    atomic.Int64
	exports          atomic.Int64
	errorsTotal      atomic.Int64

	// Latency tracking (stored as nanoseconds)
	scriptLatencyNs    atomic.Int64
	scriptLatencyCount atomic.Int64

	// Current state gauges
	previewRunning atomic.Int32

	// Pixel counters live on the drawing surface; pixelStats, when set,
	// reads them so exposition and snapshots see surface-level truth.
	pixelStats atomic.Pointer[func() (writes, dropped int64)]

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// SetPixelStatsFunc installs the source for pixel write and drop
// counters, normally the drawing surface's own atomics.
func (m *Metrics) SetPixelStatsFunc(fn func() (writes, dropped int64)) {
	if fn == nil {
		m.pixelStats.Store(nil)
		return
	}
	m.pixelStats.Store(&fn)
}

func (m *Metrics) pixelCounts() (int64, int64) {
	if fn := m.pixelStats.Load(); fn != nil {
		return (*fn)()
	}
	return 0, 0
}

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is
// running. Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	// Counters
	expvar.Publish("canvas_buffer_attaches_total", expvar.Func(func() any { return m.bufferAttaches.Load() }))
	expvar.Publish("canvas_script_executions_total", expvar.Func(func() any { return m.scriptExecutions.Load() }))
	expvar.Publish("canvas_script_errors_total", expvar.Func(func() any { return m.scriptErrors.Load() }))
	expvar.Publish("canvas_script_reloads_total", expvar.Func(func() any { return m.scriptReloads.Load() }))
	expvar.Publish("canvas_exports_total", expvar.Func(func() any { return m.exports.Load() }))
	expvar.Publish("canvas_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("canvas_pixel_writes_total", expvar.Func(func() any {
		writes, _ := m.pixelCounts()
		return writes
	}))
	expvar.Publish("canvas_pixel_drops_total", expvar.Func(func() any {
		_, dropped := m.pixelCounts()
		return dropped
	}))

	// Gauges
	expvar.Publish("canvas_preview_running", expvar.Func(func() any { return m.previewRunning.Load() }))

	// Latency averages (milliseconds)
	expvar.Publish("canvas_script_latency_avg_ms", expvar.Func(func() any {
		count := m.scriptLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.scriptLatencyNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	writes, dropped := m.pixelCounts()

	return MetricsSnapshot{
		BufferAttaches:   m.bufferAttaches.Load(),
		ScriptExecutions: m.scriptExecutions.Load(),
		ScriptErrors:     m.scriptErrors.Load(),
		ScriptReloads:    m.scriptReloads.Load(),
		Exports:          m.exports.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		PixelWrites:      writes,
		PixelDrops:       dropped,

		PreviewRunning: m.previewRunning.Load() > 0,

		ScriptLatencyAvg: safeDivide(m.scriptLatencyNs.Load(), m.scriptLatencyCount.Load()),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	BufferAttaches   int64
	ScriptExecutions int64
	ScriptErrors     int64
	ScriptReloads    int64
	Exports          int64
	ErrorsTotal      int64
	PixelWrites      int64
	PixelDrops       int64

	// Gauges
	PreviewRunning bool

	// Latency averages
	ScriptLatencyAvg time.Duration
}

// Counter increment methods

// IncrementBufferAttaches records a draw buffer attachment.
func (m *Metrics) IncrementBufferAttaches() {
	m.bufferAttaches.Add(1)
}

// IncrementScriptExecutions records a Lua script execution.
func (m *Metrics) IncrementScriptExecutions() {
	m.scriptExecutions.Add(1)
}

// IncrementScriptErrors records a Lua script error.
func (m *Metrics) IncrementScriptErrors() {
	m.scriptErrors.Add(1)
}

// IncrementScriptReloads records a script hot reload.
func (m *Metrics) IncrementScriptReloads() {
	m.scriptReloads.Add(1)
}

// IncrementExports records a PNG export.
func (m *Metrics) IncrementExports() {
	m.exports.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// Gauge methods

// SetPreviewRunning updates the preview window state gauge.
func (m *Metrics) SetPreviewRunning(running bool) {
	if running {
		m.previewRunning.Store(1)
	} else {
		m.previewRunning.Store(0)
	}
}

// Latency recording methods

// RecordScriptLatency records the duration of a script execution.
func (m *Metrics) RecordScriptLatency(d time.Duration) {
	m.scriptLatencyNs.Add(d.Nanoseconds())
	m.scriptLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.bufferAttaches.Store(0)
	m.scriptExecutions.Store(0)
	m.scriptErrors.Store(0)
	m.scriptReloads.Store(0)
	m.exports.Store(0)
	m.errorsTotal.Store(0)

	m.scriptLatencyNs.Store(0)
	m.scriptLatencyCount.Store(0)

	m.previewRunning.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is
// sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
