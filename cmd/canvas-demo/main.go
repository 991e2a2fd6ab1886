// Package main provides the canvas-demo command: a small harness around
// the go-canvas drawing surface that runs a Lua script against a pixel
// buffer and either opens a live preview window or exports the result
// as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-canvas/pkg/canvas"
)

// Version is the current version of canvas-demo.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	width := flag.Int("width", 128, "Surface width in pixels")
	height := flag.Int("height", 96, "Surface height in pixels")
	format := flag.String("format", "rgb", "Pixel format: rgb, rgba or chroma")
	scriptPath := flag.String("script", "", "Lua script drawing on the surface (omit for the built-in plasma)")
	watch := flag.Bool("watch", false, "Reload the script when it changes on disk")
	export := flag.String("export", "", "Write a PNG to this path instead of opening a window")
	scale := flag.Int("scale", 4, "Integer upscale factor for export and window size")
	transparent := flag.Bool("transparent", false, "Request a transparent preview window")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	version := flag.Bool("v", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("canvas-demo version %s\n", Version)
		return 0
	}

	cf, err := parseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if *scale < 1 {
		*scale = 1
	}

	opts := canvas.DefaultOptions()
	opts.Width = *width * *scale
	opts.Height = *height * *scale
	opts.Title = "canvas-demo"
	opts.Transparent = *transparent
	opts.WatchScript = *watch
	if *verbose {
		opts.Logger = canvas.JSONLogger(os.Stderr, slog.LevelDebug)
	}

	c, err := canvas.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating canvas: %v\n", err)
		return 1
	}
	defer c.Close()

	buf := make([]byte, canvas.BufferSize(cf, *width, *height))
	if err := c.SetBuffer(buf, *width, *height, cf); err != nil {
		fmt.Fprintf(os.Stderr, "Error attaching buffer: %v\n", err)
		return 1
	}

	if *scriptPath != "" {
		if _, err := os.Stat(*scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Script not accessible: %v\n", err)
			return 1
		}
		if err := c.LoadScript(*scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Script failed: %v\n", err)
			return 1
		}
		if out := c.Output(); out != "" {
			fmt.Print(out)
		}
	} else {
		drawPlasma(c, *width, *height, 0)
	}

	if *export != "" {
		return runExport(c, *export, *scale)
	}

	// Without a script the plasma redraws every frame; scripts draw once
	// and again on each hot reload.
	if *scriptPath == "" {
		start := time.Now()
		c.SetOnFrame(func() error {
			drawPlasma(c, *width, *height, time.Since(start).Seconds())
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("Shutting down...")
		cancel()
	}()

	fmt.Printf("canvas-demo %s presenting %dx%d surface\n", Version, *width, *height)
	if err := c.RunPreview(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Preview failed: %v\n", err)
		return 1
	}
	return 0
}

// runExport writes the surface to a PNG file and reports the outcome.
func runExport(c *canvas.Canvas, path string, scale int) int {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", path, err)
		return 1
	}
	defer f.Close()

	if err := c.ExportPNG(f, scale); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		return 1
	}
	fmt.Printf("Wrote %s\n", path)
	return 0
}

// parseFormat maps the -format flag to a pixel format.
func parseFormat(name string) (canvas.ColorFormat, error) {
	switch name {
	case "rgb":
		return canvas.FormatTrueColor, nil
	case "rgba":
		return canvas.FormatTrueColorAlpha, nil
	case "chroma":
		return canvas.FormatTrueColorChromaKeyed, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want rgb, rgba or chroma)", name)
	}
}

// drawPlasma fills the surface with the classic demoscene plasma,
// parameterized by t in seconds.
func drawPlasma(c *canvas.Canvas, w, h int, t float64) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) / float64(w)
			fy := float64(y) / float64(h)
			v := math.Sin(fx*10+t) +
				math.Sin((fy*10+t)/2) +
				math.Sin((fx*10+fy*10+t)/2)
			cx := fx + 0.5*math.Sin(t/5)
			cy := fy + 0.5*math.Cos(t/3)
			v += math.Sin(math.Sqrt(100*(cx*cx+cy*cy)+1) + t)
			v /= 2

			r := uint8(128 + 127*math.Sin(v*math.Pi))
			g := uint8(128 + 127*math.Sin(v*math.Pi+2*math.Pi/3))
			b := uint8(128 + 127*math.Sin(v*math.Pi+4*math.Pi/3))
			c.SetPixel(x, y, canvas.RGB(r, g, b))
		}
	}
}
