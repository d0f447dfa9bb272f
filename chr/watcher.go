package chr

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher optionally watches a loaded `.chr` file and recompiles its
// occurrence programs into the same Engine on every write, for the
// `load(name)` external command surface (spec.md §6) when used
// interactively. Purely additive: nothing in package chr or solver
// requires a Watcher to function.
type Watcher struct {
	path   string
	engine *Engine
	fsw    *fsnotify.Watcher
	logger *logrus.Logger
	done   chan struct{}
}

// NewWatcher loads path once into engine and starts watching it for
// further writes.
func NewWatcher(path string, engine *Engine) (*Watcher, error) {
	if _, err := reload(path, engine); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{path: path, engine: engine, fsw: fsw, logger: logrus.StandardLogger(), done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) SetLogger(l *logrus.Logger) { w.logger = l }

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := reload(w.path, w.engine); err != nil {
				w.logger.WithFields(logrus.Fields{"system": "chr", "op": "Watcher", "path": w.path}).Error(err)
			} else {
				w.logger.WithFields(logrus.Fields{"system": "chr", "path": w.path}).Info("recompiled")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithFields(logrus.Fields{"system": "chr", "op": "Watcher"}).Error(err)
		case <-w.done:
			return
		}
	}
}

// Close stops watching and releases the underlying fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func reload(path string, engine *Engine) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	engine.Clear()
	return engine.Load(string(data))
}
