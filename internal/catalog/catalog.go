// Package catalog discovers media files under the configured directories and
// reports additions and removals to the playback session.
package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
	"github.com/llehouerou/mediaplayerd/internal/tags"
)

const numWorkers = 8

// Sink receives catalog changes.
type Sink interface {
	CatalogAdded(items []playlist.Item)
	// CatalogRemoved drops every entry whose URI starts with prefix.
	CatalogRemoved(prefix string)
}

// Scanner scans and watches a set of media directories.
type Scanner struct {
	dirs   []string
	logger *zap.Logger
	// settle is how long a written file must stay quiet before it is read.
	settle time.Duration
}

// New creates a scanner over dirs.
func New(dirs []string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{dirs: dirs, logger: logger, settle: defaultSettle}
}

// URI returns the playlist URI of a local file.
func URI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// IsMedia reports whether path has an audio or video extension.
func IsMedia(path string) bool {
	return tags.MediaType(path) != ""
}

// Scan walks every directory and returns an item per media file, in walk
// order. Unreadable entries are skipped.
func (s *Scanner) Scan() []playlist.Item {
	var paths []string
	for _, dir := range s.dirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
			// Skip any walk errors - intentionally continuing to scan other paths
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsMedia(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			s.logger.Warn(errmsg.FormatWith(errmsg.OpCatalogScan, dir, err))
		}
	}
	s.logger.Debug("catalog scan", zap.Strings("dirs", s.dirs), zap.Int("files", len(paths)))
	return s.items(paths)
}

// items reads tags of paths in parallel, keeping input order.
func (s *Scanner) items(paths []string) []playlist.Item {
	items := make([]playlist.Item, len(paths))
	workCh := make(chan int, len(paths))
	for i := range paths {
		workCh <- i
	}
	close(workCh)

	var wg sync.WaitGroup
	for range min(numWorkers, len(paths)) {
		wg.Go(func() {
			for i := range workCh {
				items[i] = s.item(paths[i])
			}
		})
	}
	wg.Wait()
	return items
}

// item describes one media file. Audio files carry their tags; a file whose
// tags cannot be read is still listed under its name.
func (s *Scanner) item(path string) playlist.Item {
	item := playlist.Item{
		Path:  URI(path),
		Type:  tags.MediaType(path),
		Title: filepath.Base(path),
	}
	if item.Type != tags.MediaAudio {
		return item
	}
	info, err := tags.Read(path)
	if err != nil {
		s.logger.Debug(errmsg.FormatWith(errmsg.OpCatalogTags, path, err))
		return item
	}
	item.Title = info.Title
	item.Artist = info.Artist
	item.Album = info.Album
	item.Genre = info.Genre
	item.Duration = info.Duration.Milliseconds()
	return item
}
