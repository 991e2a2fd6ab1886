// Package render provides Ebiten-based presentation for go-canvas.
// This file implements the conversion from a raw buffer descriptor to the
// premultiplied RGBA frame Ebiten and the PNG exporter consume.
package render

import (
	"fmt"
	"image"

	"github.com/opd-ai/go-canvas/internal/widget"
)

// BlitDescriptor decodes the raw pixel buffer described by dsc into dst,
// which must be exactly dsc.Width by dsc.Height pixels. Pixels are
// premultiplied by their alpha; chroma-keyed pixels decode to fully
// transparent. The descriptor's buffer is only read, never copied into
// intermediate storage.
func BlitDescriptor(dsc *widget.BufferDescriptor, dst *image.RGBA) error {
	if dsc == nil {
		return fmt.Errorf("render: nil descriptor")
	}
	info, ok := widget.LookupFormat(dsc.Format)
	if !ok {
		return fmt.Errorf("render: unknown color format %d", dsc.Format)
	}
	bounds := dst.Bounds()
	if bounds.Dx() != dsc.Width || bounds.Dy() != dsc.Height {
		return fmt.Errorf("render: frame is %dx%d, descriptor is %dx%d",
			bounds.Dx(), bounds.Dy(), dsc.Width, dsc.Height)
	}
	if len(dsc.Data) < dsc.DataSize {
		return fmt.Errorf("render: buffer holds %d bytes, descriptor needs %d",
			len(dsc.Data), dsc.DataSize)
	}

	pxSize := info.BitsPerPixel / 8
	for y := 0; y < dsc.Height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < dsc.Width; x++ {
			off := (dsc.Width*y + x) * pxSize
			c := info.Decode(dsc.Data[off : off+pxSize])
			di := x * 4
			if c.A == 0xff {
				row[di+0] = c.R
				row[di+1] = c.G
				row[di+2] = c.B
				row[di+3] = 0xff
				continue
			}
			a := uint32(c.A)
			row[di+0] = uint8(uint32(c.R) * a / 0xff)
			row[di+1] = uint8(uint32(c.G) * a / 0xff)
			row[di+2] = uint8(uint32(c.B) * a / 0xff)
			row[di+3] = c.A
		}
	}
	return nil
}
