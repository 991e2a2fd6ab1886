// Package render provides Ebiten-based presentation for go-canvas.
// This file implements frame timing statistics for monitoring the
// presentation loop.
package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks frame timing and performance statistics. It is safe
// for concurrent use; recording and reading may happen from different
// goroutines.
type FrameMetrics struct {
	frameCount    atomic.Int64
	totalFrames   atomic.Int64
	lastFPS       atomic.Int64 // FPS * 1000 for three decimals of precision
	lastFrameTime atomic.Int64 // nanoseconds
	minFrameTime  atomic.Int64 // nanoseconds
	maxFrameTime  atomic.Int64 // nanoseconds
	totalTime     atomic.Int64 // nanoseconds
	lastUpdate    atomic.Int64 // Unix nanoseconds
	updatePeriod  time.Duration
}

// NewFrameMetrics creates a new FrameMetrics instance. The updatePeriod
// determines how often FPS is recalculated (default: 1 second).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod}
	fm.lastUpdate.Store(time.Now().UnixNano())
	fm.minFrameTime.Store(int64(time.Hour))
	return fm
}

// RecordFrame records a new frame with its duration. Call once per frame
// from the draw loop.
func (fm *FrameMetrics) RecordFrame(frameTime time.Duration) {
	frameNanos := frameTime.Nanoseconds()

	fm.frameCount.Add(1)
	fm.totalFrames.Add(1)
	fm.lastFrameTime.Store(frameNanos)
	fm.totalTime.Add(frameNanos)

	for {
		currentMin := fm.minFrameTime.Load()
		if frameNanos >= currentMin || fm.minFrameTime.CompareAndSwap(currentMin, frameNanos) {
			break
		}
	}
	for {
		currentMax := fm.maxFrameTime.Load()
		if frameNanos <= currentMax || fm.maxFrameTime.CompareAndSwap(currentMax, frameNanos) {
			break
		}
	}

	now := time.Now().UnixNano()
	lastUpdate := fm.lastUpdate.Load()
	elapsed := time.Duration(now - lastUpdate)
	if elapsed >= fm.updatePeriod {
		if fm.lastUpdate.CompareAndSwap(lastUpdate, now) {
			frames := fm.frameCount.Swap(0)
			if elapsed > 0 {
				fps := float64(frames) / elapsed.Seconds()
				fm.lastFPS.Store(int64(fps * 1000))
			}
		}
	}
}

// FPS returns the frames per second over the last update period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000.0
}

// LastFrameTime returns the duration of the last recorded frame.
func (fm *FrameMetrics) LastFrameTime() time.Duration {
	return time.Duration(fm.lastFrameTime.Load())
}

// MinFrameTime returns the shortest recorded frame, or 0 when no frame
// has been recorded yet.
func (fm *FrameMetrics) MinFrameTime() time.Duration {
	v := fm.minFrameTime.Load()
	if v == int64(time.Hour) {
		return 0
	}
	return time.Duration(v)
}

// MaxFrameTime returns the longest recorded frame.
func (fm *FrameMetrics) MaxFrameTime() time.Duration {
	return time.Duration(fm.maxFrameTime.Load())
}

// AverageFrameTime returns the mean frame duration over all recorded
// frames.
func (fm *FrameMetrics) AverageFrameTime() time.Duration {
	count := fm.totalFrames.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(fm.totalTime.Load() / count)
}

// FrameCount returns the total number of recorded frames.
func (fm *FrameMetrics) FrameCount() int64 {
	return fm.totalFrames.Load()
}
