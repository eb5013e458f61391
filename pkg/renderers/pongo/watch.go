package pongo

import (
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates the factory's template cache whenever anything under
// the base directory changes on disk.
type watcher struct {
	fsw *fsnotify.Watcher
}

func newWatcher(root string, invalidate func()) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the tree, not just the root: fsnotify does not recurse.
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					invalidate()
				}
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return &watcher{fsw: fsw}, nil
}

func (w *watcher) close() error {
	return w.fsw.Close()
}
