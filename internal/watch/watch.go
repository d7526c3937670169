package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a workspace directory for external writes to the board
// database, so an open TUI can reload when another process (CLI, seed
// import) mutates the same board.
type Watcher struct {
	Dir     string
	Changes <-chan struct{}

	changes chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

func New(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{}, 1)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

func (w *Watcher) Stop() {
	_ = w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: SQLite touches the db and its WAL several times per commit.
	const debounce = 150 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isBoardFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			select {
			case w.changes <- struct{}{}:
			default: // a reload is already queued
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the TUI still has its tick fallback.
		}
	}
}

func (w *Watcher) isBoardFile(name string) bool {
	base := filepath.Base(name)
	return base == "board.sqlite" || base == "board.sqlite-wal"
}
