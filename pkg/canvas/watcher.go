package canvas

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for script
// watch events.
const DefaultWatchDebounce = 300 * time.Millisecond

// scriptWatcher monitors a Lua script on disk and triggers reloads when
// it changes. Events are debounced so an editor writing in several
// chunks produces a single reload.
type scriptWatcher struct {
	watcher   *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onReload  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// newScriptWatcher creates a watcher for the script at path. onReload
// runs after the debounce window closes; onError receives watch and
// reload errors.
func newScriptWatcher(path string, debounce time.Duration, onReload func() error, onError func(error)) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Watch the containing directory rather than the file itself so
	// atomic saves (write to temp, rename over) keep being seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &scriptWatcher{
		watcher:   watcher,
		path:      path,
		debounce:  debounce,
		onReload:  onReload,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. Calling Start on a running
// watcher is a no-op.
func (sw *scriptWatcher) Start() {
	sw.mu.Lock()
	if sw.running {
		sw.mu.Unlock()
		return
	}
	sw.running = true
	sw.mu.Unlock()

	go sw.watchLoop()
}

// Stop halts the watcher and waits for the loop to exit.
func (sw *scriptWatcher) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	sw.mu.Unlock()

	close(sw.stopCh)
	<-sw.stoppedCh
}

func (sw *scriptWatcher) watchLoop() {
	defer close(sw.stoppedCh)
	defer sw.watcher.Close()

	absPath, _ := filepath.Abs(sw.path)
	baseName := filepath.Base(sw.path)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			sw.mu.Lock()
			sw.running = false
			sw.mu.Unlock()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// The whole directory is watched; skip events for other
			// files.
			eventAbs, _ := filepath.Abs(event.Name)
			if filepath.Base(event.Name) != baseName && eventAbs != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(sw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			if sw.onReload != nil {
				if err := sw.onReload(); err != nil && sw.onError != nil {
					sw.onError(err)
				}
			}
			debounceTimer = nil
			debounceCh = nil

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}
