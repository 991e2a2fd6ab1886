// Package render provides Ebiten-based presentation for go-canvas.
// It implements the core presentation loop using Ebiten v2: each frame the
// presented image component's descriptor is decoded and drawn scaled to
// the window, with its style's background, border and opacity applied.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-canvas/internal/widget"
)

// ErrGameTerminated is returned when the loop is terminated via context
// cancellation.
var ErrGameTerminated = errors.New("game terminated")

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// Game implements the ebiten.Game interface and presents one image
// component's pixel source. The canvas backing the image can be written
// to between frames; every Draw reads the descriptor current at that
// moment, so buffer swaps take effect on the next frame.
type Game struct {
	config       Config
	img          *widget.Image
	updater      SourceUpdater
	errorHandler ErrorHandler
	metrics      *FrameMetrics
	ctx          context.Context
	lastUpdate   time.Time
	lastDraw     time.Time

	// frame and fb are reused across frames and reallocated only when
	// the descriptor dimensions change.
	frame *image.RGBA
	fb    *ebiten.Image

	mu      sync.RWMutex
	running bool
}

// NewGame creates a presentation loop for the given image component.
func NewGame(config Config, img *widget.Image) *Game {
	return &Game{
		config:       config,
		img:          img,
		errorHandler: DefaultErrorHandler,
		metrics:      NewFrameMetrics(time.Second),
		lastUpdate:   time.Now(),
	}
}

// SetErrorHandler sets a custom handler for updater errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetUpdater sets the updater invoked at the configured interval.
func (g *Game) SetUpdater(u SourceUpdater) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updater = u
}

// SetContext sets a context for the loop. When the context is cancelled,
// the loop terminates gracefully with ErrGameTerminated.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// Metrics returns the frame performance tracker.
func (g *Game) Metrics() *FrameMetrics {
	return g.metrics
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	if g.updater != nil && time.Since(g.lastUpdate) >= g.config.UpdateInterval {
		if err := g.updater.Update(); err != nil {
			if g.errorHandler != nil {
				g.errorHandler(err)
			}
		}
		g.lastUpdate = time.Now()
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	now := time.Now()
	if !g.lastDraw.IsZero() {
		g.metrics.RecordFrame(now.Sub(g.lastDraw))
	}
	g.lastDraw = now

	style := g.img.Style()
	bg := g.config.BackgroundColor
	if style != nil {
		bg = color.RGBA{R: style.Background.R, G: style.Background.G, B: style.Background.B, A: style.Background.A}
	}
	if !g.config.Transparent {
		screen.Fill(bg)
	}

	dsc := g.img.Descriptor()
	if dsc == nil || dsc.Width <= 0 || dsc.Height <= 0 || dsc.Data == nil {
		return
	}
	if err := g.ensureFrame(dsc.Width, dsc.Height); err != nil {
		return
	}
	if err := BlitDescriptor(dsc, g.frame); err != nil {
		if g.errorHandler != nil {
			g.errorHandler(err)
		}
		return
	}
	g.fb.WritePixels(g.frame.Pix)

	opts := &ebiten.DrawImageOptions{}
	sx := float64(g.config.Width) / float64(dsc.Width)
	sy := float64(g.config.Height) / float64(dsc.Height)
	opts.GeoM.Scale(sx, sy)
	if style != nil && style.Opacity < 1.0 {
		opts.ColorScale.ScaleAlpha(float32(style.Opacity))
	}
	screen.DrawImage(g.fb, opts)

	if style != nil && style.ShowBorder && style.BorderWidth > 0 {
		bc := style.BorderColor
		vector.StrokeRect(screen, 0, 0,
			float32(g.config.Width), float32(g.config.Height),
			style.BorderWidth,
			color.RGBA{R: bc.R, G: bc.G, B: bc.B, A: bc.A}, false)
	}
}

// Layout implements ebiten.Game.Layout.
// It returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.config.Width, g.config.Height
}

// ensureFrame reallocates the reused frame buffers when the descriptor
// dimensions change.
func (g *Game) ensureFrame(w, h int) error {
	if g.frame != nil && g.frame.Bounds().Dx() == w && g.frame.Bounds().Dy() == h {
		return nil
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("render: invalid frame size %dx%d", w, h)
	}
	g.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	g.fb = ebiten.NewImage(w, h)
	return nil
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the configuration in-place. This allows live
// adjustment without stopping the loop; window size changes take effect
// on the next layout.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
}

// Run starts the Ebiten loop. This function blocks until the window is
// closed or the context set via SetContext is cancelled. A cancelled
// context returns nil; other failures are returned as-is.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	transparent := g.config.Transparent
	g.mu.Unlock()

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: transparent,
	})

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
