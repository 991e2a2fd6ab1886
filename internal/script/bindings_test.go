package script

import (
	"bytes"
	"log/slog"
	"testing"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-canvas/internal/widget"
)

// newTestBindings builds a runtime and bindings over a w x h true-color
// canvas.
func newTestBindings(t *testing.T, w, h int) (*Bindings, *widget.Canvas, []byte) {
	t.Helper()

	c, err := widget.NewCanvas(nil, nil)
	if err != nil {
		t.Fatalf("NewCanvas() error = %v", err)
	}
	c.Object().SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	buf := make([]byte, widget.PixelBitSize(widget.FormatTrueColor)*w*h/8)
	if err := c.SetBuffer(buf, w, h, widget.FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	config := DefaultConfig()
	config.Stdout = &bytes.Buffer{}
	runtime, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { runtime.Close() })

	b, err := NewBindings(runtime, c)
	if err != nil {
		t.Fatalf("NewBindings() error = %v", err)
	}
	return b, c, buf
}

func TestNewBindingsValidation(t *testing.T) {
	runtime, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	if _, err := NewBindings(nil, nil); err == nil {
		t.Error("NewBindings(nil, nil) should fail")
	}
	if _, err := NewBindings(runtime, nil); err == nil {
		t.Error("NewBindings() without a canvas should fail")
	}
}

func TestLuaSetPixel(t *testing.T) {
	b, c, _ := newTestBindings(t, 10, 10)

	_, err := b.runtime.ExecuteString("draw", `canvas.set_pixel(5, 5, 255, 0, 0)`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	got, ok := c.Pixel(5, 5)
	if !ok || got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("Pixel(5, 5) = %+v, want red", got)
	}
}

func TestLuaSetPixelOutOfBounds(t *testing.T) {
	b, c, buf := newTestBindings(t, 10, 10)

	// Out-of-bounds writes are dropped with a diagnostic, not raised as
	// Lua errors.
	_, err := b.runtime.ExecuteString("oob", `canvas.set_pixel(10, 5, 255, 0, 0)`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	for i, bb := range buf {
		if bb != 0 {
			t.Fatalf("buffer byte %d = %#x, want untouched", i, bb)
		}
	}
	if c.DroppedWrites() != 1 {
		t.Errorf("DroppedWrites() = %d, want 1", c.DroppedWrites())
	}
}

func TestLuaSetPixelBadArgs(t *testing.T) {
	b, _, _ := newTestBindings(t, 10, 10)

	if _, err := b.runtime.ExecuteString("bad", `canvas.set_pixel(1, 2)`); err == nil {
		t.Error("set_pixel with missing channels should fail")
	}
	if _, err := b.runtime.ExecuteString("bad", `canvas.set_pixel("x", 2, 1, 2, 3)`); err == nil {
		t.Error("set_pixel with a non-numeric coordinate should fail")
	}
}

func TestLuaFillAndGetPixel(t *testing.T) {
	b, _, _ := newTestBindings(t, 4, 4)

	result, err := b.runtime.ExecuteString("fill", `
		canvas.fill(0, 128, 0)
		local r, g = canvas.get_pixel(3, 3)
		return g
	`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if got, ok := rt.ToInt(result); !ok || got != 128 {
		t.Errorf("green channel = %v, want 128", result)
	}
}

func TestLuaGetPixelOutOfBounds(t *testing.T) {
	b, _, _ := newTestBindings(t, 4, 4)

	result, err := b.runtime.ExecuteString("oob", `return canvas.get_pixel(100, 0) == nil`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if !result.AsBool() {
		t.Error("get_pixel out of bounds should return nil")
	}
}

func TestLuaSize(t *testing.T) {
	b, _, _ := newTestBindings(t, 7, 3)

	result, err := b.runtime.ExecuteString("size", `
		local w, h = canvas.size()
		return w * 100 + h
	`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if got, ok := rt.ToInt(result); !ok || got != 703 {
		t.Errorf("size = %v, want 703 (7x3 encoded)", result)
	}
}

func TestLuaRGB(t *testing.T) {
	b, c, _ := newTestBindings(t, 2, 2)

	_, err := b.runtime.ExecuteString("named", `canvas.set_pixel(0, 0, canvas.rgb("crimson"))`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	got, _ := c.Pixel(0, 0)
	want := namedColors["crimson"]
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("Pixel(0, 0) = %+v, want crimson %+v", got, want)
	}

	if _, err := b.runtime.ExecuteString("unknown", `canvas.rgb("notacolor")`); err == nil {
		t.Error("rgb with an unknown name should fail")
	}
}

func TestLuaDrawLoop(t *testing.T) {
	b, c, _ := newTestBindings(t, 8, 8)

	_, err := b.runtime.ExecuteString("gradient", `
		local w, h = canvas.size()
		for y = 0, h - 1 do
			for x = 0, w - 1 do
				canvas.set_pixel(x, y, x * 32, y * 32, 0)
			end
		end
	`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	got, _ := c.Pixel(7, 7)
	if got.R != 224 || got.G != 224 {
		t.Errorf("Pixel(7, 7) = %+v, want R=G=224", got)
	}
	if c.PixelWrites() != 64 {
		t.Errorf("PixelWrites() = %d, want 64", c.PixelWrites())
	}
}
