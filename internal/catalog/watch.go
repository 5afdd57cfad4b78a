package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

const defaultSettle = 500 * time.Millisecond

// Watch reports media changes under the scanner's directories to sink until
// ctx is done. New subdirectories are watched as they appear.
func (s *Scanner) Watch(ctx context.Context, sink Sink) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	w := &watch{
		Scanner: s,
		watcher: watcher,
		sink:    sink,
		dirs:    make(map[string]bool),
		pending: make(map[string]time.Time),
	}
	for _, dir := range s.dirs {
		w.addTree(dir)
	}

	ticker := time.NewTicker(max(s.settle/2, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case <-ticker.C:
			w.flush(time.Now())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(errmsg.Format(errmsg.OpCatalogWatch, err))
		}
	}
}

type watch struct {
	*Scanner
	watcher *fsnotify.Watcher
	sink    Sink
	dirs    map[string]bool      // watched directories
	pending map[string]time.Time // written files waiting to settle
}

func (w *watch) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.removed(path)
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.addTree(path)
			if items := w.scanDir(path); len(items) > 0 {
				w.sink.CatalogAdded(items)
			}
			return
		}
		fallthrough
	case ev.Has(fsnotify.Write):
		if IsMedia(path) {
			w.pending[path] = time.Now()
		}
	}
}

func (w *watch) removed(path string) {
	delete(w.pending, path)
	if w.dirs[path] {
		prefix := path + string(filepath.Separator)
		for dir := range w.dirs {
			if dir == path || strings.HasPrefix(dir, prefix) {
				delete(w.dirs, dir)
			}
		}
		w.logger.Debug("media directory removed", zap.String("path", path))
		w.sink.CatalogRemoved(URI(path) + "/")
		return
	}
	if IsMedia(path) {
		w.logger.Debug("media file removed", zap.String("path", path))
		w.sink.CatalogRemoved(URI(path))
	}
}

// flush reports files that have not been written to for the settle period.
func (w *watch) flush(now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	if len(ready) == 0 {
		return
	}
	w.sink.CatalogAdded(w.items(ready))
}

func (w *watch) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are not watched
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn(errmsg.FormatWith(errmsg.OpCatalogWatch, path, err))
			return nil
		}
		w.dirs[filepath.Clean(path)] = true
		return nil
	})
}

func (w *watch) scanDir(dir string) []playlist.Item {
	sub := &Scanner{dirs: []string{dir}, logger: w.logger, settle: w.settle}
	return sub.Scan()
}
