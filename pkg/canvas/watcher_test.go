package canvas

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScriptWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.lua")
	if err := os.WriteFile(path, []byte(`-- v1`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reloaded := make(chan struct{}, 4)
	sw, err := newScriptWatcher(path, 50*time.Millisecond,
		func() error {
			reloaded <- struct{}{}
			return nil
		}, nil)
	if err != nil {
		t.Fatalf("newScriptWatcher() error = %v", err)
	}
	sw.Start()
	defer sw.Stop()

	if err := os.WriteFile(path, []byte(`-- v2`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not trigger reload after file change")
	}
}

func TestScriptWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.lua")
	if err := os.WriteFile(path, []byte(`-- v1`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reloaded := make(chan struct{}, 4)
	sw, err := newScriptWatcher(path, 50*time.Millisecond,
		func() error {
			reloaded <- struct{}{}
			return nil
		}, nil)
	if err != nil {
		t.Fatalf("newScriptWatcher() error = %v", err)
	}
	sw.Start()
	defer sw.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.lua"), []byte(`x`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloaded:
		t.Error("watcher reloaded for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestScriptWatcherReloadErrorReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.lua")
	if err := os.WriteFile(path, []byte(`-- v1`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	errCh := make(chan error, 4)
	sw, err := newScriptWatcher(path, 50*time.Millisecond,
		func() error { return os.ErrInvalid },
		func(err error) { errCh <- err })
	if err != nil {
		t.Fatalf("newScriptWatcher() error = %v", err)
	}
	sw.Start()
	defer sw.Stop()

	if err := os.WriteFile(path, []byte(`-- v2`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case got := <-errCh:
		if got != os.ErrInvalid {
			t.Errorf("onError received %v, want ErrInvalid", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reload error was not reported")
	}
}

func TestScriptWatcherStopTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.lua")
	if err := os.WriteFile(path, []byte(`-- v1`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	sw, err := newScriptWatcher(path, 50*time.Millisecond, nil, nil)
	if err != nil {
		t.Fatalf("newScriptWatcher() error = %v", err)
	}
	sw.Start()
	sw.Stop()
	// A second Stop must not panic on the closed channel.
	sw.Stop()
}
