package tags

import (
	"os"
	"path/filepath"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// Read reads tag metadata from a media file.
// Title falls back to the file name. Duration is probed separately and left
// zero when the format cannot be decoded.
func Read(path string) (*Info, error) {
	info, err := readTags(path)
	if err != nil {
		return nil, err
	}
	if info.Title == "" {
		info.Title = filepath.Base(path)
	}
	if d, err := ReadDuration(path); err == nil {
		info.Duration = d
	}
	return info, nil
}

func readTags(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if ext(path) == ExtMP3 {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2(path)
		}
		// Untagged files are still playable; describe them by name only.
		return &Info{Path: path}, nil //nolint:nilerr // missing tags are not an error
	}

	return &Info{
		Path:   path,
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
	}, nil
}

// readMP3WithID3v2 reads MP3 metadata using only the id3v2 library.
func readMP3WithID3v2(path string) (*Info, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	return &Info{
		Path:   path,
		Title:  id3tag.Title(),
		Artist: id3tag.Artist(),
		Album:  id3tag.Album(),
		Genre:  id3tag.Genre(),
	}, nil
}
