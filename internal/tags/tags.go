// Package tags reads the descriptive metadata and embedded pictures of media
// files. It backs both the catalog (title, album, artist, genre, duration)
// and the album art published with track metadata.
package tags

import (
	"path/filepath"
	"strings"
	"time"
)

// File extensions recognised by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtM4A  = ".m4a"
)

// Video extensions. Video files are catalogued but never listed or played.
const (
	ExtMP4  = ".mp4"
	ExtMKV  = ".mkv"
	ExtWEBM = ".webm"
	ExtAVI  = ".avi"
	ExtMOV  = ".mov"
)

// Media types as carried in the track "type" field.
const (
	MediaAudio = "audio"
	MediaVideo = "video"
)

// Info contains the descriptive metadata of a media file.
type Info struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Genre    string
	Duration time.Duration
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch ext(path) {
	case ExtMP3, ExtFLAC, ExtWAV, ExtOPUS, ExtOGG, ExtM4A:
		return true
	}
	return false
}

// IsVideoFile returns true if the path has a known video file extension.
func IsVideoFile(path string) bool {
	switch ext(path) {
	case ExtMP4, ExtMKV, ExtWEBM, ExtAVI, ExtMOV:
		return true
	}
	return false
}

// MediaType returns "audio", "video" or "" for unrecognised files.
func MediaType(path string) string {
	switch {
	case IsMusicFile(path):
		return MediaAudio
	case IsVideoFile(path):
		return MediaVideo
	}
	return ""
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
