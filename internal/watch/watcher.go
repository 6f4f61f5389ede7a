package watch

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs a callback when Markdown files are saved. Editors tend to
// fire several events per save, so events are debounced per path.
type Watcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	matches   func(path string) bool
	onChange  func(path string)
	dirFilter func(path string) bool
	debounce  map[string]time.Time
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a watcher. matches filters event paths, onChange runs for each
// surviving event. Directories created while watching are registered too,
// unless dirFilter rejects them; a nil dirFilter accepts every directory.
func New(matches func(string) bool, onChange func(string), dirFilter func(string) bool) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:   fsw,
		matches:   matches,
		onChange:  onChange,
		dirFilter: dirFilter,
		debounce:  make(map[string]time.Time),
		interval:  500 * time.Millisecond, // Debounce rapid saves
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Add registers a directory with the underlying fsnotify watcher.
func (w *Watcher) Add(dir string) error {
	return w.watcher.Add(dir)
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		log.Printf("watch: error closing watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 && w.addIfDir(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(ev.Name) {
				continue
			}
			if w.debounced(ev.Name) {
				continue
			}
			w.onChange(ev.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Individual event errors are not fatal to the watch loop.
			log.Printf("watch: %v", err)
		}
	}
}

// addIfDir registers a newly created directory so saves in fresh subtrees are
// seen. Files written into it before registration completes are missed; the
// next save catches them.
func (w *Watcher) addIfDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if w.dirFilter != nil && !w.dirFilter(path) {
		// Ignored directory, but still not a file event.
		return true
	}
	if err := w.watcher.Add(path); err != nil {
		log.Printf("watch: cannot watch %s: %v", path, err)
	}
	return true
}

// debounced reports whether an event for path arrived within the debounce
// interval of the previous one.
func (w *Watcher) debounced(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if last, ok := w.debounce[path]; ok && now.Sub(last) < w.interval {
		return true
	}
	w.debounce[path] = now
	return false
}
