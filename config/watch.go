package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a tuning file whenever it changes on disk. Each successful
// reload is delivered on Updates; parse and watch failures go to Errors.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan Tuning
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched rather than the
// file so editors that save by rename are still seen.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    abs,
		watcher: w,
		Updates: make(chan Tuning, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Updates)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// Editors write in several steps; reload once the file has been quiet
	// for reloadDebounce.
	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != w.path {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			t, err := Load(w.path)
			if err != nil {
				w.send(w.Errors, err)
				continue
			}
			w.replace(t)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(w.Errors, err)
		case <-w.closeCh:
			return
		}
	}
}

// replace keeps only the newest tuning in the buffered channel.
func (w *Watcher) replace(t Tuning) {
	for {
		select {
		case w.Updates <- t:
			return
		case <-w.Updates:
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}
