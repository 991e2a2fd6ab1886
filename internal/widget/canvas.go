// Package widget implements the canvas component hierarchy for go-canvas.
// This file implements the canvas component: a drawing surface exposing a
// mutable, caller-owned raw pixel buffer for direct pixel writes, layered
// on the image component for rendering and style handling.
package widget

import (
	"fmt"
	"sync/atomic"
)

// StyleKind selects which style of a canvas to access.
type StyleKind uint8

const (
	// StyleMain is the only style a canvas carries. It is delegated to
	// the base image component; the canvas itself holds no style state.
	StyleMain StyleKind = iota
)

// Canvas is a drawing surface over a caller-owned pixel buffer. It is the
// pixel source backing its base image component: the image renders
// directly from the canvas descriptor and no pixel data is copied.
//
// Buffer attachment swaps the whole descriptor atomically, so a
// concurrent render read never observes mixed old and new fields. Pixel
// writes themselves are not synchronized against readers; serialization
// across goroutines is the embedding application's responsibility.
type Canvas struct {
	img *Image
	dsc atomic.Pointer[BufferDescriptor]

	pixelWrites   atomic.Int64
	droppedWrites atomic.Int64
}

// NewCanvas creates a canvas component under parent, wrapping a new base
// image. The descriptor starts empty: zero dimensions, true-color format,
// no data. With a non-nil copyFrom only the style linkage is refreshed;
// the pixel descriptor is deliberately not copied, so the new canvas has
// an empty surface and must have a buffer attached separately. Returns an
// error when the base image cannot be created.
func NewCanvas(parent *Object, copyFrom *Canvas) (*Canvas, error) {
	var copyImg *Image
	if copyFrom != nil {
		copyImg = copyFrom.img
	}
	img, err := NewImage(parent, copyImg)
	if err != nil {
		return nil, fmt.Errorf("widget: create canvas: %w", err)
	}

	c := &Canvas{img: img}
	obj := img.Object()
	obj.SetExtendedAttr(c)
	// The image behavior installed by NewImage becomes the base of the
	// canvas behavior.
	obj.SetBehavior(&canvasBehavior{base: obj.Behavior()})

	c.dsc.Store(&BufferDescriptor{Format: FormatTrueColor})
	img.SetSource(c)

	if copyFrom != nil {
		// Aliasing the original's buffer would make two writers share
		// memory neither owns, so only the style is carried over.
		img.RefreshStyle()
	}
	return c, nil
}

// CanvasFromObject recovers the canvas component attached to obj, if any.
func CanvasFromObject(obj *Object) (*Canvas, bool) {
	if obj == nil {
		return nil, false
	}
	c, ok := obj.ExtendedAttr().(*Canvas)
	return c, ok
}

// Object returns the underlying base object.
func (c *Canvas) Object() *Object {
	return c.img.Object()
}

// Image returns the base image component the canvas wraps.
func (c *Canvas) Image() *Image {
	return c.img
}

// Descriptor returns the current buffer descriptor. Canvas implements
// PixelSource with this method; the returned descriptor is immutable.
func (c *Canvas) Descriptor() *BufferDescriptor {
	return c.dsc.Load()
}

// Width returns the attached buffer's width in pixels.
func (c *Canvas) Width() int {
	return c.dsc.Load().Width
}

// Height returns the attached buffer's height in pixels.
func (c *Canvas) Height() int {
	return c.dsc.Load().Height
}

// SetBuffer attaches caller-owned pixel memory to the canvas. The
// required size of buf is PixelBitSize(cf)*w*h/8 bytes; the canvas does
// not verify buf's capacity against it — sizing is the caller's contract,
// and a short buffer makes later pixel writes panic at Go's slice bounds
// rather than corrupt adjacent memory. All descriptor fields are updated
// as one atomic unit and the base image is notified that its pixel source
// changed. The buffer is never freed by the canvas.
func (c *Canvas) SetBuffer(buf []byte, w, h int, cf ColorFormat) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("widget: canvas dimensions must be non-negative, got %dx%d", w, h)
	}
	bits := PixelBitSize(cf)
	if bits == 0 {
		return fmt.Errorf("widget: unknown color format %d", cf)
	}

	c.dsc.Store(&BufferDescriptor{
		Width:    w,
		Height:   h,
		Format:   cf,
		Data:     buf,
		DataSize: bits * w * h / 8,
	})
	c.img.SetSource(c)
	return nil
}

// SetPixel writes one pixel at (x, y). Coordinates outside the attached
// buffer emit a warning diagnostic and leave the buffer untouched; this
// is non-fatal misuse, not an error. The color is encoded with the
// descriptor format's own encoder, so a write never spills into adjacent
// pixel bytes.
func (c *Canvas) SetPixel(x, y int, col Color) {
	dsc := c.dsc.Load()
	if x < 0 || y < 0 || x >= dsc.Width || y >= dsc.Height {
		c.droppedWrites.Add(1)
		c.Object().Logger().Warn("canvas: pixel out of bounds",
			"x", x, "y", y, "width", dsc.Width, "height", dsc.Height)
		return
	}

	info, ok := lookupFormat(dsc.Format)
	if !ok {
		c.droppedWrites.Add(1)
		c.Object().Logger().Warn("canvas: unknown color format", "format", int(dsc.Format))
		return
	}
	pxSize := info.BitsPerPixel / 8
	off := (dsc.Width*y + x) * pxSize
	info.Encode(col, dsc.Data[off:off+pxSize])
	c.pixelWrites.Add(1)
}

// Pixel reads back the pixel at (x, y). The second return value is false
// when the coordinates fall outside the attached buffer.
func (c *Canvas) Pixel(x, y int) (Color, bool) {
	dsc := c.dsc.Load()
	if x < 0 || y < 0 || x >= dsc.Width || y >= dsc.Height {
		return Color{}, false
	}
	info, ok := lookupFormat(dsc.Format)
	if !ok {
		return Color{}, false
	}
	pxSize := info.BitsPerPixel / 8
	off := (dsc.Width*y + x) * pxSize
	return info.Decode(dsc.Data[off : off+pxSize]), true
}

// Fill writes col to every pixel of the attached buffer.
func (c *Canvas) Fill(col Color) {
	dsc := c.dsc.Load()
	info, ok := lookupFormat(dsc.Format)
	if !ok || len(dsc.Data) == 0 {
		return
	}
	pxSize := info.BitsPerPixel / 8
	n := dsc.Width * dsc.Height
	for i := 0; i < n; i++ {
		off := i * pxSize
		info.Encode(col, dsc.Data[off:off+pxSize])
	}
	c.pixelWrites.Add(int64(n))
}

// SetStyle sets a style of the canvas. StyleMain delegates to the base
// image; any other kind is ignored.
func (c *Canvas) SetStyle(kind StyleKind, s *Style) {
	switch kind {
	case StyleMain:
		c.img.SetStyle(s)
	}
}

// GetStyle returns a style of the canvas. StyleMain delegates to the base
// image; any other kind returns nil.
func (c *Canvas) GetStyle(kind StyleKind) *Style {
	switch kind {
	case StyleMain:
		return c.img.Style()
	default:
		return nil
	}
}

// PixelWrites returns the number of successful pixel writes.
func (c *Canvas) PixelWrites() int64 {
	return c.pixelWrites.Load()
}

// DroppedWrites returns the number of out-of-bounds writes dropped.
func (c *Canvas) DroppedWrites() int64 {
	return c.droppedWrites.Load()
}

// canvasBehavior handles signals for the canvas kind, delegating to the
// image behavior injected at construction.
type canvasBehavior struct {
	base Behavior
}

// TypeName returns the static type tag of the canvas kind.
func (*canvasBehavior) TypeName() string { return "canvas" }

// HandleSignal delegates to the base behavior first; when the base
// reports the object invalid that result propagates immediately and no
// canvas-specific processing runs.
func (b *canvasBehavior) HandleSignal(obj *Object, sig Signal, param any) Result {
	res := b.base.HandleSignal(obj, sig, param)
	if res != ResultOK {
		return res
	}

	switch sig {
	case SignalCleanup:
		// Nothing to clean up: the pixel buffer is caller-owned and the
		// descriptor holds no other resources.
	case SignalGetType:
		if tc, ok := param.(*TypeChain); ok {
			tc.Append(b.TypeName())
		}
	}
	return res
}
