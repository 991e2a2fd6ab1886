// Package render provides Ebiten-based presentation for go-canvas.
// This file implements PNG export of an image component's current pixel
// source, with optional nearest-neighbor upscaling.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/opd-ai/go-canvas/internal/widget"
)

// ExportPNG writes the image component's current pixel source to w as a
// PNG. A scale greater than 1 upscales with nearest-neighbor filtering so
// individual pixels stay crisp. Returns an error when no buffer is
// attached or the descriptor's format is unknown.
func ExportPNG(w io.Writer, img *widget.Image, scale int) error {
	dsc := img.Descriptor()
	if dsc == nil || dsc.Data == nil || dsc.Width <= 0 || dsc.Height <= 0 {
		return fmt.Errorf("render: no pixel buffer attached")
	}
	if scale < 1 {
		scale = 1
	}

	frame := image.NewRGBA(image.Rect(0, 0, dsc.Width, dsc.Height))
	if err := BlitDescriptor(dsc, frame); err != nil {
		return err
	}

	out := frame
	if scale > 1 {
		out = image.NewRGBA(image.Rect(0, 0, dsc.Width*scale, dsc.Height*scale))
		xdraw.NearestNeighbor.Scale(out, out.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
