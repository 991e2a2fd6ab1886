// Package widget implements the canvas component hierarchy for go-canvas.
// This file implements color values and the color-format registry owned by
// the image component: bits-per-pixel lookup plus the encoding between
// Color values and raw buffer bytes.
package widget

import (
	"fmt"
	"sync"
)

// Color is a pixel color value. Formats without an alpha channel ignore A
// when encoding and report it as opaque when decoding.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// RGBA returns a color with an explicit alpha channel.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ChromaKey is the color treated as fully transparent when rendering a
// chroma-keyed source. Pure green, following the common convention.
var ChromaKey = Color{R: 0x00, G: 0xff, B: 0x00, A: 0xff}

// ColorFormat identifies a pixel encoding. The format set is owned by the
// image component and extensible through RegisterFormat; callers obtain
// pixel sizes from PixelBitSize rather than hard-coding them.
type ColorFormat uint8

const (
	// FormatTrueColor is 24-bit RGB, 3 bytes per pixel.
	FormatTrueColor ColorFormat = iota
	// FormatTrueColorAlpha is 32-bit RGBA, 4 bytes per pixel.
	FormatTrueColorAlpha
	// FormatTrueColorChromaKeyed is 24-bit RGB where pixels matching
	// ChromaKey render as fully transparent.
	FormatTrueColorChromaKeyed
)

// String returns a human-readable format name, or "unknown" for a format
// that was never registered.
func (cf ColorFormat) String() string {
	info, ok := lookupFormat(cf)
	if !ok {
		return "unknown"
	}
	return info.Name
}

// FormatInfo describes one registered color format.
type FormatInfo struct {
	// Name is a human-readable format name.
	Name string
	// BitsPerPixel is the storage size of one pixel. Must be a positive
	// multiple of 8.
	BitsPerPixel int
	// Encode writes the format's representation of c into dst, which is
	// exactly BitsPerPixel/8 bytes long.
	Encode func(c Color, dst []byte)
	// Decode reads one pixel from src, which is exactly BitsPerPixel/8
	// bytes long.
	Decode func(src []byte) Color
}

// formatRegistry holds the registered formats. The built-in table is
// installed once at package init; RegisterFormat extends it for formats
// added by embedders.
var formatRegistry = struct {
	mu      sync.RWMutex
	formats map[ColorFormat]FormatInfo
}{
	formats: map[ColorFormat]FormatInfo{
		FormatTrueColor: {
			Name:         "true-color",
			BitsPerPixel: 24,
			Encode:       encodeRGB,
			Decode:       decodeRGB,
		},
		FormatTrueColorAlpha: {
			Name:         "true-color-alpha",
			BitsPerPixel: 32,
			Encode: func(c Color, dst []byte) {
				dst[0], dst[1], dst[2], dst[3] = c.R, c.G, c.B, c.A
			},
			Decode: func(src []byte) Color {
				return Color{R: src[0], G: src[1], B: src[2], A: src[3]}
			},
		},
		FormatTrueColorChromaKeyed: {
			Name:         "true-color-chroma-keyed",
			BitsPerPixel: 24,
			Encode:       encodeRGB,
			Decode: func(src []byte) Color {
				c := decodeRGB(src)
				if c.R == ChromaKey.R && c.G == ChromaKey.G && c.B == ChromaKey.B {
					c.A = 0
				}
				return c
			},
		},
	},
}

func encodeRGB(c Color, dst []byte) {
	dst[0], dst[1], dst[2] = c.R, c.G, c.B
}

func decodeRGB(src []byte) Color {
	return Color{R: src[0], G: src[1], B: src[2], A: 0xff}
}

// RegisterFormat adds a color format to the registry. Registering an
// already known format or an invalid pixel size is an error; formats are
// never replaced or removed once registered.
func RegisterFormat(cf ColorFormat, info FormatInfo) error {
	if info.BitsPerPixel <= 0 || info.BitsPerPixel%8 != 0 {
		return fmt.Errorf("widget: format %q: bits per pixel must be a positive multiple of 8, got %d",
			info.Name, info.BitsPerPixel)
	}
	if info.Encode == nil || info.Decode == nil {
		return fmt.Errorf("widget: format %q: encode and decode functions are required", info.Name)
	}
	formatRegistry.mu.Lock()
	defer formatRegistry.mu.Unlock()
	if _, exists := formatRegistry.formats[cf]; exists {
		return fmt.Errorf("widget: color format %d already registered", cf)
	}
	formatRegistry.formats[cf] = info
	return nil
}

// PixelBitSize returns the storage size in bits of one pixel in the given
// format, or 0 for an unregistered format.
func PixelBitSize(cf ColorFormat) int {
	info, ok := lookupFormat(cf)
	if !ok {
		return 0
	}
	return info.BitsPerPixel
}

// LookupFormat returns the registered info for cf. Renderers use this to
// decode raw buffers described by a BufferDescriptor.
func LookupFormat(cf ColorFormat) (FormatInfo, bool) {
	return lookupFormat(cf)
}

// lookupFormat returns the registered info for cf.
func lookupFormat(cf ColorFormat) (FormatInfo, bool) {
	formatRegistry.mu.RLock()
	defer formatRegistry.mu.RUnlock()
	info, ok := formatRegistry.formats[cf]
	return info, ok
}
