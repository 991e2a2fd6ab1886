// Package canvas provides the public API for embedding the go-canvas
// drawing surface. It bundles a pixel buffer surface, a sandboxed Lua
// scripting runtime bound to it, a live Ebiten preview window and PNG
// export behind one handle.
//
// # Basic Usage
//
// Create a canvas, attach caller-owned pixel memory and draw:
//
//	c, err := canvas.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	buf := make([]byte, canvas.BufferSize(canvas.FormatTrueColor, 128, 128))
//	if err := c.SetBuffer(buf, 128, 128, canvas.FormatTrueColor); err != nil {
//		log.Fatal(err)
//	}
//	c.Fill(canvas.RGB(16, 16, 32))
//	c.SetPixel(64, 64, canvas.RGB(255, 0, 0))
//
// The buffer stays owned by the application: the canvas never frees or
// reallocates it, and attaching a new buffer swaps the surface
// descriptor atomically.
//
// # Lua Scripting
//
// Scripts run in a resource-limited Lua runtime with a global canvas
// table bound to the surface:
//
//	err := c.ExecuteScript("demo", `
//		local w, h = canvas.size()
//		for x = 0, w - 1 do
//			canvas.set_pixel(x, h / 2, canvas.rgb("crimson"))
//		end
//	`)
//
// [Canvas.LoadScript] runs a script file, and with
// [Options.WatchScript] set it is re-run whenever the file changes on
// disk. Reloads of a persistently broken script are held back by a
// circuit breaker until a cooldown elapses.
//
// # Preview and Export
//
// [Canvas.RunPreview] opens a window presenting the surface live; it
// must be called on the main goroutine and blocks until the window
// closes or the context is cancelled. [Canvas.ExportPNG] writes the
// surface to a PNG with optional nearest-neighbor upscaling, with no
// window involved.
//
// # Observability
//
// Structured logging flows through the [Logger] interface, defaulting
// to log/slog on stderr. [Metrics] counters can be exposed via expvar
// with [Metrics.RegisterExpvar].
package canvas
