// Package script provides Golua integration for go-canvas.
// This file implements the canvas drawing API exposed to Lua scripts as
// the global "canvas" table.
package script

import (
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-canvas/internal/widget"
)

// namedColors maps common color names to their RGB values for the
// canvas.rgb helper, so scripts can say canvas.rgb("crimson") instead of
// carrying channel triples around.
var namedColors = map[string]widget.Color{
	"black":   widget.RGB(0, 0, 0),
	"white":   widget.RGB(255, 255, 255),
	"red":     widget.RGB(255, 0, 0),
	"green":   widget.RGB(0, 128, 0),
	"blue":    widget.RGB(0, 0, 255),
	"yellow":  widget.RGB(255, 255, 0),
	"cyan":    widget.RGB(0, 255, 255),
	"magenta": widget.RGB(255, 0, 255),
	"gray":    widget.RGB(128, 128, 128),
	"grey":    widget.RGB(128, 128, 128),
	"silver":  widget.RGB(192, 192, 192),
	"maroon":  widget.RGB(128, 0, 0),
	"olive":   widget.RGB(128, 128, 0),
	"lime":    widget.RGB(0, 255, 0),
	"teal":    widget.RGB(0, 128, 128),
	"navy":    widget.RGB(0, 0, 128),
	"purple":  widget.RGB(128, 0, 128),
	"orange":  widget.RGB(255, 165, 0),
	"pink":    widget.RGB(255, 192, 203),
	"brown":   widget.RGB(165, 42, 42),
	"gold":    widget.RGB(255, 215, 0),
	"crimson": widget.RGB(220, 20, 60),
}

// Bindings exposes a canvas component to Lua scripts. The canvas field
// is immutable after initialization; scripts draw on the one canvas the
// bindings were created for.
type Bindings struct {
	runtime *Runtime
	canvas  *widget.Canvas
}

// NewBindings creates a Bindings instance and registers the canvas table
// in the provided Lua runtime.
func NewBindings(runtime *Runtime, canvas *widget.Canvas) (*Bindings, error) {
	if runtime == nil {
		return nil, fmt.Errorf("runtime cannot be nil")
	}
	if canvas == nil {
		return nil, fmt.Errorf("canvas cannot be nil")
	}

	b := &Bindings{
		runtime: runtime,
		canvas:  canvas,
	}
	b.registerFunctions()
	return b, nil
}

// Canvas returns the canvas the bindings draw on.
func (b *Bindings) Canvas() *widget.Canvas {
	return b.canvas
}

// registerFunctions builds the canvas table and installs it as a global.
func (b *Bindings) registerFunctions() {
	tbl := rt.NewTable()
	b.setFunc(tbl, "set_pixel", b.setPixel, 5, true)
	b.setFunc(tbl, "get_pixel", b.getPixel, 2, false)
	b.setFunc(tbl, "fill", b.fill, 3, true)
	b.setFunc(tbl, "size", b.size, 0, false)
	b.setFunc(tbl, "rgb", b.rgb, 1, false)
	b.runtime.SetGlobal("canvas", rt.TableValue(tbl))
}

// setFunc installs a Go function into the canvas table, declared
// compliant with golua's resource accounting.
func (b *Bindings) setFunc(tbl *rt.Table, name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) {
	goFunc := rt.NewGoFunction(fn, "canvas."+name, nArgs, hasVarArgs)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, goFunc)
	tbl.Set(rt.StringValue(name), rt.FunctionValue(goFunc))
}

// setPixel implements canvas.set_pixel(x, y, r, g, b [, a]). Coordinates
// outside the attached buffer are dropped with a diagnostic, matching
// the Go API.
func (b *Bindings) setPixel(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	x, err := getIntArg(args, 0)
	if err != nil {
		return nil, fmt.Errorf("canvas.set_pixel: x: %w", err)
	}
	y, err := getIntArg(args, 1)
	if err != nil {
		return nil, fmt.Errorf("canvas.set_pixel: y: %w", err)
	}
	col, err := getColorArgs(args, 2)
	if err != nil {
		return nil, fmt.Errorf("canvas.set_pixel: %w", err)
	}

	b.canvas.SetPixel(int(x), int(y), col)
	return c.Next(), nil
}

// getPixel implements canvas.get_pixel(x, y) -> r, g, b, a. Out-of-range
// coordinates return nil.
func (b *Bindings) getPixel(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	x, err := getIntArg(args, 0)
	if err != nil {
		return nil, fmt.Errorf("canvas.get_pixel: x: %w", err)
	}
	y, err := getIntArg(args, 1)
	if err != nil {
		return nil, fmt.Errorf("canvas.get_pixel: y: %w", err)
	}

	col, ok := b.canvas.Pixel(int(x), int(y))
	if !ok {
		return c.PushingNext1(t.Runtime, rt.NilValue), nil
	}
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(col.R)),
		rt.IntValue(int64(col.G)),
		rt.IntValue(int64(col.B)),
		rt.IntValue(int64(col.A)),
	), nil
}

// fill implements canvas.fill(r, g, b [, a]).
func (b *Bindings) fill(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	col, err := getColorArgs(args, 0)
	if err != nil {
		return nil, fmt.Errorf("canvas.fill: %w", err)
	}

	b.canvas.Fill(col)
	return c.Next(), nil
}

// size implements canvas.size() -> width, height.
func (b *Bindings) size(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	dsc := b.canvas.Descriptor()
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(dsc.Width)),
		rt.IntValue(int64(dsc.Height)),
	), nil
}

// rgb implements canvas.rgb(name) -> r, g, b. Unknown names are an
// error so typos surface instead of silently drawing black.
func (b *Bindings) rgb(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	name, err := c.StringArg(0)
	if err != nil {
		return nil, fmt.Errorf("canvas.rgb: name: %w", err)
	}

	col, ok := namedColors[string(name)]
	if !ok {
		return nil, fmt.Errorf("canvas.rgb: unknown color %q", name)
	}
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(col.R)),
		rt.IntValue(int64(col.G)),
		rt.IntValue(int64(col.B)),
	), nil
}

// getAllArgs returns fixed and variadic arguments as one slice.
func getAllArgs(c *rt.GoCont) []rt.Value {
	return append(c.Args(), c.Etc()...)
}

// getIntArg extracts an integer argument at idx.
func getIntArg(args []rt.Value, idx int) (int64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx, len(args))
	}
	if i, ok := args[idx].TryInt(); ok {
		return i, nil
	}
	if f, ok := args[idx].TryFloat(); ok {
		return int64(f), nil
	}
	return 0, fmt.Errorf("argument %d is not a number", idx)
}

// getColorArgs extracts r, g, b and an optional a starting at idx,
// clamping each channel to 0-255.
func getColorArgs(args []rt.Value, idx int) (widget.Color, error) {
	channel := func(i int) (uint8, error) {
		v, err := getIntArg(args, i)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v), nil
	}

	r, err := channel(idx)
	if err != nil {
		return widget.Color{}, err
	}
	g, err := channel(idx + 1)
	if err != nil {
		return widget.Color{}, err
	}
	b, err := channel(idx + 2)
	if err != nil {
		return widget.Color{}, err
	}
	a := uint8(0xff)
	if idx+3 < len(args) {
		a, err = channel(idx + 3)
		if err != nil {
			return widget.Color{}, err
		}
	}
	return widget.RGBA(r, g, b, a), nil
}
