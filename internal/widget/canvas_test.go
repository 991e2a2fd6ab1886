package widget

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestCanvas creates a root canvas with its diagnostics captured in
// the returned buffer.
func newTestCanvas(t *testing.T) (*Canvas, *bytes.Buffer) {
	t.Helper()
	c, err := NewCanvas(nil, nil)
	if err != nil {
		t.Fatalf("NewCanvas() error = %v", err)
	}
	var logBuf bytes.Buffer
	c.Object().SetLogger(slog.New(slog.NewTextHandler(&logBuf, nil)))
	return c, &logBuf
}

func TestNewCanvasEmptyDescriptor(t *testing.T) {
	c, _ := newTestCanvas(t)

	dsc := c.Descriptor()
	if dsc == nil {
		t.Fatal("Descriptor() = nil, want empty descriptor")
	}
	if dsc.Width != 0 || dsc.Height != 0 {
		t.Errorf("dimensions = %dx%d, want 0x0", dsc.Width, dsc.Height)
	}
	if dsc.Format != FormatTrueColor {
		t.Errorf("format = %v, want %v", dsc.Format, FormatTrueColor)
	}
	if dsc.Data != nil {
		t.Error("Data should be nil until a buffer is attached")
	}
	if dsc.DataSize != 0 {
		t.Errorf("DataSize = %d, want 0", dsc.DataSize)
	}
}

func TestNewCanvasBacksImageSource(t *testing.T) {
	c, _ := newTestCanvas(t)

	if c.Image().Source() != PixelSource(c) {
		t.Error("canvas should be installed as its image's pixel source")
	}
	if c.Image().Descriptor() != c.Descriptor() {
		t.Error("image should render directly from the canvas descriptor")
	}
}

func TestSetBufferDataSize(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		format   ColorFormat
		wantSize int
	}{
		{"true color 10x10", 10, 10, FormatTrueColor, 300},
		{"true color alpha 10x10", 10, 10, FormatTrueColorAlpha, 400},
		{"chroma keyed 7x3", 7, 3, FormatTrueColorChromaKeyed, 63},
		{"empty", 0, 0, FormatTrueColor, 0},
		{"single row", 640, 1, FormatTrueColorAlpha, 2560},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCanvas(t)
			buf := make([]byte, tt.wantSize)
			if err := c.SetBuffer(buf, tt.w, tt.h, tt.format); err != nil {
				t.Fatalf("SetBuffer() error = %v", err)
			}

			dsc := c.Descriptor()
			if dsc.DataSize != tt.wantSize {
				t.Errorf("DataSize = %d, want %d", dsc.DataSize, tt.wantSize)
			}
			if want := PixelBitSize(tt.format) * tt.w * tt.h / 8; dsc.DataSize != want {
				t.Errorf("DataSize = %d, want PixelBitSize*w*h/8 = %d", dsc.DataSize, want)
			}
			if dsc.Width != tt.w || dsc.Height != tt.h {
				t.Errorf("dimensions = %dx%d, want %dx%d", dsc.Width, dsc.Height, tt.w, tt.h)
			}
			if dsc.Format != tt.format {
				t.Errorf("format = %v, want %v", dsc.Format, tt.format)
			}
		})
	}
}

func TestSetBufferRejectsInvalidArguments(t *testing.T) {
	c, _ := newTestCanvas(t)

	if err := c.SetBuffer(nil, -1, 10, FormatTrueColor); err == nil {
		t.Error("SetBuffer() with negative width should fail")
	}
	if err := c.SetBuffer(nil, 10, -1, FormatTrueColor); err == nil {
		t.Error("SetBuffer() with negative height should fail")
	}
	if err := c.SetBuffer(nil, 10, 10, ColorFormat(250)); err == nil {
		t.Error("SetBuffer() with an unregistered format should fail")
	}
}

func TestSetBufferSwapsDescriptorAtomically(t *testing.T) {
	c, _ := newTestCanvas(t)

	old := c.Descriptor()
	buf := make([]byte, 300)
	if err := c.SetBuffer(buf, 10, 10, FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	// The previously published descriptor must be untouched; attach
	// replaces the whole value rather than mutating fields in place.
	if old.Width != 0 || old.Data != nil {
		t.Error("previous descriptor was mutated by SetBuffer")
	}
	if c.Descriptor() == old {
		t.Error("SetBuffer should publish a fresh descriptor")
	}
}

func TestSetPixelRowMajorAddressing(t *testing.T) {
	// The reference scenario: 10x10 true color (3 bytes/pixel), a write
	// at (5, 5) lands at byte offset 10*5*3 + 5*3 = 165.
	c, _ := newTestCanvas(t)
	buf := make([]byte, 300)
	if err := c.SetBuffer(buf, 10, 10, FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	red := RGB(0xff, 0, 0)
	c.SetPixel(5, 5, red)

	if buf[165] != 0xff || buf[166] != 0x00 || buf[167] != 0x00 {
		t.Errorf("bytes at offset 165 = [%#x %#x %#x], want red encoding [0xff 0x0 0x0]",
			buf[165], buf[166], buf[167])
	}
	for i, b := range buf {
		if (i < 165 || i > 167) && b != 0 {
			t.Errorf("byte %d = %#x, want 0 (write spilled outside the pixel slot)", i, b)
		}
	}
}

func TestSetPixelRoundTrip(t *testing.T) {
	formats := []ColorFormat{FormatTrueColor, FormatTrueColorAlpha, FormatTrueColorChromaKeyed}

	for _, cf := range formats {
		t.Run(cf.String(), func(t *testing.T) {
			c, _ := newTestCanvas(t)
			const w, h = 8, 5
			buf := make([]byte, PixelBitSize(cf)*w*h/8)
			if err := c.SetBuffer(buf, w, h, cf); err != nil {
				t.Fatalf("SetBuffer() error = %v", err)
			}

			want := RGBA(0x12, 0x34, 0x56, 0x78)
			c.SetPixel(3, 2, want)

			got, ok := c.Pixel(3, 2)
			if !ok {
				t.Fatal("Pixel(3, 2) not readable")
			}
			if got.R != want.R || got.G != want.G || got.B != want.B {
				t.Errorf("Pixel(3, 2) = %+v, want RGB %+v", got, want)
			}
			if cf == FormatTrueColorAlpha && got.A != want.A {
				t.Errorf("alpha = %#x, want %#x", got.A, want.A)
			}
		})
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	c, logBuf := newTestCanvas(t)
	buf := make([]byte, 300)
	if err := c.SetBuffer(buf, 10, 10, FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	tests := []struct{ x, y int }{
		{10, 5}, {5, 10}, {-1, 0}, {0, -1}, {100, 100},
	}
	for _, tt := range tests {
		c.SetPixel(tt.x, tt.y, RGB(0xff, 0, 0))
	}

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %#x after out-of-bounds writes, want unchanged buffer", i, b)
		}
	}
	if got := c.DroppedWrites(); got != int64(len(tests)) {
		t.Errorf("DroppedWrites() = %d, want %d", got, len(tests))
	}
	if !strings.Contains(logBuf.String(), "out of bounds") {
		t.Error("out-of-bounds write should emit a diagnostic")
	}
}

func TestSetPixelChromaKeyedDecode(t *testing.T) {
	c, _ := newTestCanvas(t)
	buf := make([]byte, 3)
	if err := c.SetBuffer(buf, 1, 1, FormatTrueColorChromaKeyed); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	c.SetPixel(0, 0, ChromaKey)
	got, ok := c.Pixel(0, 0)
	if !ok {
		t.Fatal("Pixel(0, 0) not readable")
	}
	if got.A != 0 {
		t.Errorf("chroma key pixel alpha = %#x, want 0 (transparent)", got.A)
	}
}

func TestFill(t *testing.T) {
	c, _ := newTestCanvas(t)
	const w, h = 4, 3
	buf := make([]byte, PixelBitSize(FormatTrueColorAlpha)*w*h/8)
	if err := c.SetBuffer(buf, w, h, FormatTrueColorAlpha); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}

	want := RGBA(10, 20, 30, 40)
	c.Fill(want)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got, _ := c.Pixel(x, y)
			if got != want {
				t.Fatalf("Pixel(%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
	if got := c.PixelWrites(); got != int64(w*h) {
		t.Errorf("PixelWrites() = %d, want %d", got, w*h)
	}
}

func TestStyleDelegation(t *testing.T) {
	c, _ := newTestCanvas(t)

	s := DefaultStyle()
	s.Background = RGB(1, 2, 3)
	c.SetStyle(StyleMain, s)

	if got := c.GetStyle(StyleMain); got != s {
		t.Errorf("GetStyle(StyleMain) = %p, want the style set via SetStyle", got)
	}
	if got := c.Image().Style(); got != s {
		t.Error("style should be delegated to the base image, not stored on the canvas")
	}

	// Unrecognized kinds: no-op on set, nil on get.
	other := StyleKind(7)
	c.SetStyle(other, DefaultStyle())
	if got := c.GetStyle(other); got != nil {
		t.Errorf("GetStyle(%d) = %v, want nil", other, got)
	}
	if got := c.GetStyle(StyleMain); got != s {
		t.Error("setting an unrecognized style kind should not disturb the main style")
	}
}

func TestCanvasTypeChain(t *testing.T) {
	c, _ := newTestCanvas(t)

	got := c.Object().Type()
	want := []string{"object", "image", "canvas"}
	if len(got) != len(want) {
		t.Fatalf("Type() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Type()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTypeChainTruncation(t *testing.T) {
	var tc TypeChain
	for i := 0; i < MaxTypeDepth; i++ {
		tc.Append("filler")
	}
	tc.Append("canvas")

	tags := tc.Tags()
	if len(tags) != MaxTypeDepth {
		t.Fatalf("len(Tags()) = %d, want %d", len(tags), MaxTypeDepth)
	}
	for i, tag := range tags {
		if tag != "filler" {
			t.Errorf("Tags()[%d] = %q, want %q (truncation must not overwrite)", i, tag, "filler")
		}
	}
}

func TestNewCanvasCopyDoesNotAliasBuffer(t *testing.T) {
	orig, _ := newTestCanvas(t)
	buf := make([]byte, 300)
	if err := orig.SetBuffer(buf, 10, 10, FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}
	style := DefaultStyle()
	orig.SetStyle(StyleMain, style)

	dup, err := NewCanvas(nil, orig)
	if err != nil {
		t.Fatalf("NewCanvas(copy) error = %v", err)
	}

	dsc := dup.Descriptor()
	if dsc.Data != nil || dsc.Width != 0 || dsc.Height != 0 {
		t.Error("copied canvas must start with an empty surface, not alias the original buffer")
	}
	if dup.GetStyle(StyleMain) != style {
		t.Error("copied canvas should share the original's style linkage")
	}

	// Writes to the copy must not reach the original's buffer.
	dup.SetPixel(0, 0, RGB(0xff, 0, 0))
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("original buffer byte %d = %#x, want untouched", i, b)
		}
	}
}

func TestNewCanvasDeletedParent(t *testing.T) {
	parent := NewObject(nil)
	parent.Delete()

	if _, err := NewCanvas(parent, nil); err == nil {
		t.Error("NewCanvas() under a deleted parent should fail")
	}
}

func TestCanvasCleanupLeavesBufferAlive(t *testing.T) {
	c, _ := newTestCanvas(t)
	buf := make([]byte, 300)
	if err := c.SetBuffer(buf, 10, 10, FormatTrueColor); err != nil {
		t.Fatalf("SetBuffer() error = %v", err)
	}
	c.SetPixel(0, 0, RGB(1, 2, 3))

	c.Object().Delete()

	if c.Object().Valid() {
		t.Error("object should be invalid after Delete")
	}
	// The caller still owns the buffer; cleanup must not touch it.
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Error("cleanup modified the caller-owned buffer")
	}
	if res := c.Object().Signal(SignalGetType, &TypeChain{}); res != ResultInvalid {
		t.Errorf("Signal() after delete = %v, want ResultInvalid", res)
	}
}

// invalidBehavior reports the object deleted for every signal.
type invalidBehavior struct{}

func (invalidBehavior) TypeName() string { return "invalid" }

func (invalidBehavior) HandleSignal(obj *Object, sig Signal, param any) Result {
	return ResultInvalid
}

func TestCanvasBehaviorShortCircuit(t *testing.T) {
	b := &canvasBehavior{base: invalidBehavior{}}
	obj := NewObject(nil)

	var tc TypeChain
	if res := b.HandleSignal(obj, SignalGetType, &tc); res != ResultInvalid {
		t.Errorf("HandleSignal() = %v, want ResultInvalid propagated from the base", res)
	}
	if len(tc.Tags()) != 0 {
		t.Error("no canvas-specific processing should run after the base reports invalid")
	}
}

func TestCanvasFromObject(t *testing.T) {
	c, _ := newTestCanvas(t)

	got, ok := CanvasFromObject(c.Object())
	if !ok || got != c {
		t.Error("CanvasFromObject should recover the canvas from its object")
	}
	if _, ok := CanvasFromObject(nil); ok {
		t.Error("CanvasFromObject(nil) should report no canvas")
	}
	if _, ok := CanvasFromObject(NewObject(nil)); ok {
		t.Error("CanvasFromObject on a plain object should report no canvas")
	}
}
