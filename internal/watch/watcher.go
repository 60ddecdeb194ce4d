// Package watch reports changes to individual files using fsnotify.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"inikeys/internal/errors"
	"inikeys/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a settled modification of a watched file.
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Removed reports whether the file was removed or renamed away.
func (c Change) Removed() bool {
	return c.Op.Has(fsnotify.Remove) || c.Op.Has(fsnotify.Rename)
}

// Watcher monitors files for changes. Each file is watched through its parent
// directory so that editors which save by writing a new file and renaming it
// over the old one are still seen.
type Watcher struct {
	// Watched files by absolute path
	files map[string]struct{}

	// Quiet period before a burst of events is reported as one Change
	debounce time.Duration

	// Channel to deliver settled changes
	changes chan Change

	// Channel to signal stop, and closed by the loop once it has exited
	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher that reports changes after the given quiet period.
func New(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if debounce < 0 {
		debounce = 0
	}

	return &Watcher{
		files:     make(map[string]struct{}),
		debounce:  debounce,
		changes:   make(chan Change, 10),
		fsWatcher: fsWatcher,
	}, nil
}

// AddFile starts watching path.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.NewFileError("invalid path", path, errors.FileOperationFailed, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return errors.NewFileError("error accessing file", abs, kind, err)
	}
	if info.IsDir() {
		return errors.NewFileError("not a regular file", abs, errors.FileOperationFailed, nil)
	}

	dir := filepath.Dir(abs)
	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("failed to watch directory", dir, errors.FileOperationFailed, err)
	}

	w.mutex.Lock()
	w.files[abs] = struct{}{}
	w.mutex.Unlock()

	log.LogWithFields(log.F("file", abs)).Info("Watching file")
	return nil
}

// Files returns the watched paths.
func (w *Watcher) Files() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Events returns the channel of settled changes. It is closed by Stop.
func (w *Watcher) Events() <-chan Change {
	return w.changes
}

func (w *Watcher) watched(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	_, ok := w.files[abs]
	return abs, ok
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return errors.New("watcher stopped")
	}
	if w.running {
		return errors.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		now := time.Now()
		for path, op := range pending {
			w.send(Change{Path: path, Op: op, Timestamp: now})
		}
		pending = make(map[string]fsnotify.Op)
		timerC = nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			path, ok := w.watched(event.Name)
			if !ok {
				continue
			}

			log.LogWithFields(log.F("file", path), log.F("op", event.Op.String())).Debug("File event")

			pending[path] |= event.Op
			if w.debounce == 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			flush()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// send delivers c without blocking the event loop.
func (w *Watcher) send(c Change) {
	select {
	case w.changes <- c:
	default:
		log.LogWithFields(log.F("file", c.Path)).Warn("Event channel is full, dropped change")
	}
}

// Stop halts the watcher, releases the fsnotify watcher and closes the
// Events channel. It is safe to call on a watcher that was never started,
// and a stopped watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	if wasRunning {
		w.running = false
		close(w.stopChan)
	}
	done := w.done
	w.mutex.Unlock()

	if wasRunning {
		<-done
	}

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithError(err).Error("Error closing fsnotify watcher")
	}
	close(w.changes)

	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
