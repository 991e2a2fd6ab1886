// Package script provides Golua integration for go-canvas.
// It implements the Lua runtime environment with safe execution and
// resource limits, and the canvas drawing API exposed to Lua scripts.
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit for Lua execution.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes that Lua can allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout is the writer for Lua print output.
	// If nil, os.Stdout is used.
	Stdout io.Writer
}

// DefaultConfig returns a RuntimeConfig with sensible default values.
// CPU limit: 10,000,000 instructions
// Memory limit: 50 MB
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    10_000_000,
		MemoryLimit: 50 * 1024 * 1024, // 50 MB
		Stdout:      os.Stdout,
	}
}

// Runtime wraps a Golua runtime with canvas-specific functionality.
// It provides thread-safe access to Lua execution with resource limits.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.RWMutex
}

// New creates a new Runtime with the specified configuration.
// The runtime is initialized with Lua standard libraries and resource
// limits.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	stdout := config.Stdout
	if stdout == nil {
		stdout = output
	} else {
		// Capture output while also writing to configured stdout
		stdout = io.MultiWriter(stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}, nil
}

// LoadString compiles and loads a Lua code string.
// The returned Closure can be executed using Execute.
func (r *Runtime) LoadString(name, code string) (*rt.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		name,
		[]byte(code),
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Lua code: %w", err)
	}
	return closure, nil
}

// LoadFile reads and loads a Lua file from disk.
// The returned Closure can be executed using Execute.
func (r *Runtime) LoadFile(path string) (*rt.Closure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read Lua file %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(
		path,
		content,
		rt.TableValue(r.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Lua file %s: %w", path, err)
	}
	return closure, nil
}

// Execute runs a compiled Lua closure within resource limits. Golua
// panics when a hard resource limit is exhausted; the panic is recovered
// here and returned as an error so a runaway script cannot take down the
// embedding application.
func (r *Runtime) Execute(closure *rt.Closure) (result rt.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	}
	r.runtime.PushContext(ctx)
	defer r.runtime.PopContext()

	defer func() {
		if rec := recover(); rec != nil {
			result = rt.NilValue
			err = fmt.Errorf("Lua execution aborted: %v", rec)
		}
	}()

	thread := r.runtime.MainThread()
	result, err = rt.Call1(thread, rt.FunctionValue(closure))
	if err != nil {
		return rt.NilValue, fmt.Errorf("Lua execution error: %w", err)
	}
	return result, nil
}

// ExecuteString compiles and executes a Lua code string.
// This is a convenience method that combines LoadString and Execute.
func (r *Runtime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := r.LoadString(name, code)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// ExecuteFile loads and executes a Lua file.
// This is a convenience method that combines LoadFile and Execute.
func (r *Runtime) ExecuteFile(path string) (rt.Value, error) {
	closure, err := r.LoadFile(path)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// GetGlobal retrieves a global variable from the Lua environment.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal sets a global variable in the Lua environment.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// Output returns everything Lua print wrote so far.
func (r *Runtime) Output() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.output.String()
}

// ClearOutput discards the captured print output.
func (r *Runtime) ClearOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.output.Reset()
}

// Config returns the runtime configuration.
func (r *Runtime) Config() RuntimeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config
}

// Runtime returns the underlying Golua runtime for advanced integration
// such as registering additional bindings.
func (r *Runtime) Runtime() *rt.Runtime {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.runtime
}

// Close releases the runtime's resources. Safe to call multiple times.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
