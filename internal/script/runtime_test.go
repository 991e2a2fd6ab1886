package script

import (
	"bytes"
	"strings"
	"testing"

	rt "github.com/arnodel/golua/runtime"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CPULimit != 10_000_000 {
		t.Errorf("CPULimit = %d, want 10000000", config.CPULimit)
	}
	if config.MemoryLimit != 50*1024*1024 {
		t.Errorf("MemoryLimit = %d, want 50MB", config.MemoryLimit)
	}
}

func TestExecuteString(t *testing.T) {
	runtime, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	result, err := runtime.ExecuteString("sum", `
		local sum = 0
		for i = 1, 10 do
			sum = sum + i
		end
		return sum
	`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}

	got, ok := rt.ToInt(result)
	if !ok || got != 55 {
		t.Errorf("result = %v, want 55", result)
	}
}

func TestExecuteStringSyntaxError(t *testing.T) {
	runtime, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	if _, err := runtime.ExecuteString("bad", `this is not lua`); err == nil {
		t.Error("ExecuteString() with invalid syntax should fail")
	}
}

func TestOutputCapture(t *testing.T) {
	config := DefaultConfig()
	config.Stdout = &bytes.Buffer{}
	runtime, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	if _, err := runtime.ExecuteString("hello", `print("hello canvas")`); err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if !strings.Contains(runtime.Output(), "hello canvas") {
		t.Errorf("Output() = %q, want print output captured", runtime.Output())
	}

	runtime.ClearOutput()
	if runtime.Output() != "" {
		t.Error("ClearOutput() should discard captured output")
	}
}

func TestResourceLimitReturnsError(t *testing.T) {
	config := RuntimeConfig{
		CPULimit:    100, // far too low for the loop below
		MemoryLimit: 1024 * 1024,
		Stdout:      &bytes.Buffer{},
	}
	runtime, err := New(config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	// Golua panics on quota exhaustion; Execute must turn that into an
	// error instead of letting it propagate.
	_, err = runtime.ExecuteString("heavy", `
		local sum = 0
		for i = 1, 100000 do
			sum = sum + i
		end
		return sum
	`)
	if err == nil {
		t.Error("ExecuteString() exceeding the CPU limit should fail")
	}
}

func TestGlobals(t *testing.T) {
	runtime, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer runtime.Close()

	runtime.SetGlobal("answer", rt.IntValue(42))
	result, err := runtime.ExecuteString("global", `return answer`)
	if err != nil {
		t.Fatalf("ExecuteString() error = %v", err)
	}
	if got, ok := rt.ToInt(result); !ok || got != 42 {
		t.Errorf("result = %v, want 42", result)
	}

	if got := runtime.GetGlobal("answer"); got != rt.IntValue(42) {
		t.Errorf("GetGlobal() = %v, want 42", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	runtime, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := runtime.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := runtime.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
