package workspace

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/arbor/tree"
)

// Workspace is the registry of open documents under a root directory.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	docs    map[string]*Document
	opts    []tree.Option
}

func New(rootDir string, opts ...tree.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		docs:    make(map[string]*Document),
		opts:    opts,
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every source file under the root, one goroutine per
// core.
func (w *Workspace) ScanAll() error {
	var paths []string
	filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != w.rootDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isSourceFile(path) {
			paths = append(paths, path)
		}
		return nil
	})

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		g.Go(func() error { return w.ScanFile(path) })
	}
	return g.Wait()
}

// ScanFile loads a file from disk into the workspace, replacing any
// open document for the same path.
func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc := w.Open(path, string(content))
	doc.Ready()
	return nil
}

// Open registers a document with the given content. An existing
// document for the path is closed and replaced.
func (w *Workspace) Open(path, content string) *Document {
	doc := NewDocument(path, content, w.opts...)
	w.mu.Lock()
	old := w.docs[path]
	w.docs[path] = doc
	w.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return doc
}

func (w *Workspace) Get(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	doc := w.docs[path]
	delete(w.docs, path)
	w.mu.Unlock()
	if doc != nil {
		doc.Close()
	}
}

func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		out = append(out, d)
	}
	return out
}

func (w *Workspace) Close() {
	w.mu.Lock()
	docs := w.docs
	w.docs = make(map[string]*Document)
	w.mu.Unlock()
	for _, d := range docs {
		d.Close()
	}
}

func isSourceFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".r" || ext == ".R"
}
