//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// coverNames lists album art filenames in priority order, lowercased.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindAlbumArt looks for a cover image next to the track, given as a file
// path or file:// URI. Names match case-insensitively.
// Returns the path to the art file, or empty string if not found.
func FindAlbumArt(track string) string {
	dir := filepath.Dir(strings.TrimPrefix(track, "file://"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	found := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		found[strings.ToLower(e.Name())] = filepath.Join(dir, e.Name())
	}
	for _, name := range coverNames {
		if path, ok := found[name]; ok {
			return path
		}
	}
	return ""
}
