package magic

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Reloader keeps a Magic loaded from a path and replaces it with a freshly
// built one whenever the file or directory changes. The loaded rules are
// never modified; readers see either the old or the new Magic.
type Reloader struct {
	path    string
	opts    []Option
	logger  zerolog.Logger
	current atomic.Pointer[Magic]
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	onReload func(*Magic, error)

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewReloader loads path like NewFromPath and starts watching it.
func NewReloader(path string, opts ...Option) (*Reloader, error) {
	m, err := NewFromPath(path, opts...)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// a single file is watched through its directory so that editors
	// replacing the file by rename are still seen
	watchPath := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		watchPath = filepath.Dir(path)
	}
	if err := w.Add(watchPath); err != nil {
		w.Close()
		return nil, &SourceError{Op: "watch", Path: watchPath, Kind: ErrIO, Err: err}
	}

	r := &Reloader{
		path:    path,
		opts:    opts,
		logger:  processOptions(opts...).Logger,
		watcher: w,
		done:    make(chan struct{}),
	}
	r.current.Store(m)

	r.wg.Add(1)
	go r.run()
	return r, nil
}

// OnReload registers fn to be called after each reload attempt with the
// new Magic or the error that kept the previous one in place.
func (r *Reloader) OnReload(fn func(*Magic, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReload = fn
}

// Magic returns the currently loaded instance.
func (r *Reloader) Magic() *Magic {
	return r.current.Load()
}

// ContentTypeOfBytes matches data with the current instance.
func (r *Reloader) ContentTypeOfBytes(data []byte) (*ContentType, error) {
	return r.Magic().ContentTypeOfBytes(data)
}

// ContentTypeOfFile matches the file at path with the current instance.
func (r *Reloader) ContentTypeOfFile(path string) (*ContentType, error) {
	return r.Magic().ContentTypeOfFile(path)
}

// Reload rebuilds the rules now. On failure the previous instance stays.
func (r *Reloader) Reload() error {
	m, err := NewFromPath(r.path, r.opts...)
	if err == nil {
		// carry over a read size changed since the last load
		if prev := r.current.Load(); prev != nil {
			m.SetFileReadSize(prev.FileReadSize())
		}
		r.current.Store(m)
		r.logger.Debug().Str("path", r.path).Int("rules", m.Len()).Msg("Reloaded magic rules")
	} else {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("Failed to reload magic rules, keeping previous")
	}
	r.mu.Lock()
	fn := r.onReload
	r.mu.Unlock()
	if fn != nil {
		fn(m, err)
	}
	return err
}

// Close stops watching.
func (r *Reloader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		err = r.watcher.Close()
		r.wg.Wait()
	})
	return err
}

func (r *Reloader) run() {
	defer r.wg.Done()

	target := filepath.Clean(r.path)
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(event, target) {
				continue
			}
			_ = r.Reload()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn().Err(err).Str("path", r.path).Msg("Magic watcher error")
		}
	}
}

// relevant reports whether event touches the watched file or directory.
func (r *Reloader) relevant(event fsnotify.Event, target string) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == target {
		return true
	}
	// events for siblings of a watched single file are ignored
	return filepath.Dir(name) == target
}
