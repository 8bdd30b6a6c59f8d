package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("arbor.workspace")

// Watcher keeps the workspace in sync with the filesystem.
type Watcher struct {
	workspace *Workspace
	fs        *fsnotify.Watcher
	done      chan struct{}
}

func NewWatcher(w *Workspace) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher{
		workspace: w,
		fs:        fs,
		done:      make(chan struct{}),
	}
	if err := watcher.addDirs(w.RootDir()); err != nil {
		fs.Close()
		return nil, err
	}
	return watcher, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.addDirs(ev.Name)
			return
		}
		w.scan(ev.Name)
	case ev.Has(fsnotify.Write):
		w.scan(ev.Name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if isSourceFile(ev.Name) {
			w.workspace.Remove(ev.Name)
		}
	}
}

func (w *Watcher) scan(path string) {
	if !isSourceFile(path) {
		return
	}
	if err := w.workspace.ScanFile(path); err != nil {
		log.Errorf("scan %s: %s", path, err)
	}
}
