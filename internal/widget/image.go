// Package widget implements the canvas component hierarchy for go-canvas.
// This file implements the image component: the pixel-source holder that
// owns style delegation and the descriptor type raw sources are described
// with. The rendering pipeline reads an image's descriptor directly; no
// copy of pixel data is made for rendering.
package widget

import (
	"fmt"
)

// BufferDescriptor describes a raw pixel source: dimensions, color format
// and the caller-owned backing memory. Data is non-owning; attaching and
// detaching a descriptor never allocates or frees the pixel memory.
//
// A descriptor value is immutable once published. Sources that swap
// buffers build a fresh descriptor and replace the whole value, so a
// reader never observes a partially updated descriptor.
type BufferDescriptor struct {
	// Width and Height are the source dimensions in pixels, non-negative.
	Width, Height int
	// Format is the pixel encoding of Data.
	Format ColorFormat
	// Data is the caller-allocated pixel memory, nil until attached.
	Data []byte
	// DataSize is the descriptor's byte size:
	// PixelBitSize(Format) * Width * Height / 8.
	DataSize int
}

// PixelSource supplies raw pixel data for an Image to render. Descriptor
// returns the current descriptor snapshot; it must be safe to call
// concurrently with buffer swaps on the source.
type PixelSource interface {
	Descriptor() *BufferDescriptor
}

// Image is the base component for pixel-source presentation. It renders
// whatever its source currently describes and owns the style record that
// derived components delegate to.
type Image struct {
	obj    *Object
	source PixelSource
	style  *Style
}

// NewImage creates an image component under parent. With a non-nil
// copyFrom, the new image adopts the original's source and style; the
// underlying pixel memory is shared, not duplicated. Returns an error
// when parent or copyFrom has already been deleted.
func NewImage(parent *Object, copyFrom *Image) (*Image, error) {
	if parent != nil && !parent.Valid() {
		return nil, fmt.Errorf("widget: image parent is deleted")
	}
	if copyFrom != nil && !copyFrom.obj.Valid() {
		return nil, fmt.Errorf("widget: image copy source is deleted")
	}

	img := &Image{
		obj:   NewObject(parent),
		style: DefaultStyle(),
	}
	img.obj.SetExtendedAttr(img)
	img.obj.SetBehavior(&imageBehavior{base: img.obj.Behavior()})

	if copyFrom != nil {
		img.source = copyFrom.source
		img.style = copyFrom.style
	}
	return img, nil
}

// ImageFromObject recovers the image component attached to obj, if any.
// Derived components replace the extended-attributes slot with their own
// value, so this only succeeds on plain image objects.
func ImageFromObject(obj *Object) (*Image, bool) {
	if obj == nil {
		return nil, false
	}
	img, ok := obj.ExtendedAttr().(*Image)
	return img, ok
}

// Object returns the underlying base object.
func (img *Image) Object() *Object {
	return img.obj
}

// SetSource installs a pixel source and notifies the behavior chain that
// the source changed, so downstream rendering observes the new pixels.
func (img *Image) SetSource(src PixelSource) {
	img.source = src
	img.obj.Signal(SignalSourceChanged, src)
}

// Source returns the installed pixel source, or nil.
func (img *Image) Source() PixelSource {
	return img.source
}

// Descriptor returns the current descriptor of the installed source, or
// nil when no source is installed.
func (img *Image) Descriptor() *BufferDescriptor {
	if img.source == nil {
		return nil
	}
	return img.source.Descriptor()
}

// SetStyle replaces the image's style and notifies the behavior chain.
func (img *Image) SetStyle(s *Style) {
	img.style = s
	img.obj.Signal(SignalStyleChanged, s)
}

// Style returns the image's current style.
func (img *Image) Style() *Style {
	return img.style
}

// RefreshStyle re-announces the current style through the behavior chain.
// Components call this after replacing a behavior so presentation state
// derived from the style is rebuilt.
func (img *Image) RefreshStyle() {
	img.obj.Signal(SignalStyleChanged, img.style)
}

// imageBehavior handles signals for the image kind, delegating to the
// base object behavior injected at construction.
type imageBehavior struct {
	base Behavior
}

// TypeName returns the static type tag of the image kind.
func (*imageBehavior) TypeName() string { return "image" }

// HandleSignal delegates to the base behavior first and short-circuits
// when the base reports the object invalid.
func (b *imageBehavior) HandleSignal(obj *Object, sig Signal, param any) Result {
	res := b.base.HandleSignal(obj, sig, param)
	if res != ResultOK {
		return res
	}

	switch sig {
	case SignalCleanup:
		if img, ok := ImageFromObject(obj); ok {
			// Drop the source reference; the pixel memory itself is
			// caller-owned and never freed here.
			img.source = nil
		}
	case SignalGetType:
		if tc, ok := param.(*TypeChain); ok {
			tc.Append(b.TypeName())
		}
	}
	return res
}
