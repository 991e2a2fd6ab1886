package canvas

import (
	"github.com/opd-ai/go-canvas/internal/widget"
)

// Re-exported surface types, so applications can use the public API
// without importing internal packages.

// Color is an RGBA color with 8 bits per channel.
type Color = widget.Color

// ColorFormat identifies a pixel memory layout.
type ColorFormat = widget.ColorFormat

// BufferDescriptor describes an attached pixel buffer: dimensions,
// format, backing memory and its derived byte size.
type BufferDescriptor = widget.BufferDescriptor

// Style holds the visual properties applied when the surface is
// presented.
type Style = widget.Style

// StyleKind selects which style of the surface to access.
type StyleKind = widget.StyleKind

// Supported pixel formats.
const (
	// FormatTrueColor is 24-bit RGB without alpha.
	FormatTrueColor = widget.FormatTrueColor
	// FormatTrueColorAlpha is 32-bit RGBA.
	FormatTrueColorAlpha = widget.FormatTrueColorAlpha
	// FormatTrueColorChromaKeyed is 24-bit RGB where the chroma key
	// color renders transparent.
	FormatTrueColorChromaKeyed = widget.FormatTrueColorChromaKeyed
)

// StyleMain is the surface's single style slot.
const StyleMain = widget.StyleMain

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return widget.RGB(r, g, b)
}

// RGBA returns a color with an explicit alpha channel.
func RGBA(r, g, b, a uint8) Color {
	return widget.RGBA(r, g, b, a)
}

// DefaultStyle returns the style a fresh surface starts with.
func DefaultStyle() *Style {
	return widget.DefaultStyle()
}

// BufferSize returns the number of bytes a buffer must hold for a
// w x h surface in format cf, or 0 for an unknown format.
func BufferSize(cf ColorFormat, w, h int) int {
	return widget.PixelBitSize(cf) * w * h / 8
}
