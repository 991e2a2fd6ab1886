package widget

import (
	"testing"
)

func TestPixelBitSize(t *testing.T) {
	tests := []struct {
		format ColorFormat
		want   int
	}{
		{FormatTrueColor, 24},
		{FormatTrueColorAlpha, 32},
		{FormatTrueColorChromaKeyed, 24},
		{ColorFormat(200), 0},
	}

	for _, tt := range tests {
		if got := PixelBitSize(tt.format); got != tt.want {
			t.Errorf("PixelBitSize(%v) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestColorFormatString(t *testing.T) {
	if got := FormatTrueColor.String(); got != "true-color" {
		t.Errorf("String() = %q, want %q", got, "true-color")
	}
	if got := ColorFormat(201).String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}

func TestColorConstructors(t *testing.T) {
	c := RGB(1, 2, 3)
	if c.A != 0xff {
		t.Errorf("RGB alpha = %#x, want opaque", c.A)
	}
	c = RGBA(1, 2, 3, 4)
	if c.A != 4 {
		t.Errorf("RGBA alpha = %#x, want 4", c.A)
	}
}

func TestRegisterFormat(t *testing.T) {
	// Grayscale, 8 bits per pixel. High format value to avoid colliding
	// with other tests extending the shared registry.
	const grayscale = ColorFormat(240)
	err := RegisterFormat(grayscale, FormatInfo{
		Name:         "grayscale",
		BitsPerPixel: 8,
		Encode: func(c Color, dst []byte) {
			dst[0] = uint8((int(c.R) + int(c.G) + int(c.B)) / 3)
		},
		Decode: func(src []byte) Color {
			return Color{R: src[0], G: src[0], B: src[0], A: 0xff}
		},
	})
	if err != nil {
		t.Fatalf("RegisterFormat() error = %v", err)
	}

	if got := PixelBitSize(grayscale); got != 8 {
		t.Errorf("PixelBitSize() = %d, want 8", got)
	}
	if got := grayscale.String(); got != "grayscale" {
		t.Errorf("String() = %q, want %q", got, "grayscale")
	}

	// A canvas can use the extended format like any built-in one.
	c, err := NewCanvas(nil, nil)
	if err != nil {
		t.Fatalf("NewCanvas() error = %v", err)
	}
	buf := make([]byte, 4)
	if err := c.SetBuffer(buf, 2, 2, grayscale); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}
	c.SetPixel(1, 1, RGB(30, 60, 90))
	if buf[3] != 60 {
		t.Errorf("grayscale byte = %d, want 60", buf[3])
	}
}

func TestRegisterFormatRejectsInvalid(t *testing.T) {
	valid := FormatInfo{
		Name:         "x",
		BitsPerPixel: 8,
		Encode:       func(Color, []byte) {},
		Decode:       func([]byte) Color { return Color{} },
	}

	bad := valid
	bad.BitsPerPixel = 12
	if err := RegisterFormat(ColorFormat(241), bad); err == nil {
		t.Error("RegisterFormat() should reject a pixel size that is not a byte multiple")
	}

	bad = valid
	bad.Encode = nil
	if err := RegisterFormat(ColorFormat(242), bad); err == nil {
		t.Error("RegisterFormat() should reject a missing encoder")
	}

	if err := RegisterFormat(FormatTrueColor, valid); err == nil {
		t.Error("RegisterFormat() should reject re-registering a known format")
	}
}
