package loader

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls onChange whenever the file at a watched path is written
// to or recreated, so a long-running process can hot-reload a model
// without restarting.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchFile starts watching path, calling onChange on every write or
// create event. Watch-loop errors go to onError if non-nil, or to the
// standard logger otherwise. The returned Watcher must be closed to stop
// the background goroutine.
func WatchFile(path string, onChange func(), onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{watcher: fsw, done: make(chan struct{})}
	go w.loop(onChange, onError)
	return w, nil
}

func (w *Watcher) loop(onChange func(), onError func(error)) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			} else {
				log.Printf("loader: watch error: %s", err)
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watch loop and releases the underlying inotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
