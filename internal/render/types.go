// Package render provides Ebiten-based presentation for go-canvas.
package render

import (
	"fmt"
	"image/color"
	"time"
)

// Config holds the presentation configuration options.
type Config struct {
	// Width is the window width in pixels.
	Width int
	// Height is the window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// UpdateInterval is the time between updater invocations.
	UpdateInterval time.Duration
	// BackgroundColor is the window background color, painted behind the
	// presented pixel source when the source's style has no background of
	// its own.
	BackgroundColor color.RGBA
	// Transparent enables window transparency. On Linux this only takes
	// effect when a compositor is running; see CheckTransparencySupport.
	Transparent bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          300,
		Title:           "go-canvas",
		UpdateInterval:  time.Second / 30,
		BackgroundColor: color.RGBA{R: 0, G: 0, B: 0, A: 255},
		Transparent:     false,
	}
}

// Validate checks if the Config has valid values.
// Returns an error if Width or Height are not positive.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	return nil
}

// SourceUpdater refreshes application state before frames are drawn,
// typically by writing pixels into the presented canvas.
type SourceUpdater interface {
	// Update refreshes the pixel source.
	Update() error
}

// ErrorHandler is a function type for handling errors during updates.
type ErrorHandler func(err error)
