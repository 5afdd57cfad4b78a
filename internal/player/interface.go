// internal/player/interface.go
package player

import (
	"errors"
	"time"
)

// ErrNotLoaded is returned by operations that need a loaded media URI.
var ErrNotLoaded = errors.New("no media loaded")

// Engine is the media pipeline the playback session drives. Implementations
// deliver end-of-stream, duration and tag notifications on Events from their
// own goroutines; every other method is called by a single owner.
type Engine interface {
	// Load replaces the pipeline's media and leaves it Paused at position 0.
	Load(uri string) error
	// Play starts or resumes output. A Null pipeline restarts the last
	// loaded media from the beginning.
	Play() error
	Pause()
	// Stop releases the stream and moves to Null. The URI is kept.
	Stop()
	// Seek performs a flushing seek to an absolute position.
	Seek(position time.Duration) error
	// SetVolume sets the output level in percent (0-100).
	SetVolume(level int)
	Position() (time.Duration, bool)
	Duration() (time.Duration, bool)
	State() State
	Events() <-chan Event
	Close() error
}

// Verify Beep implements Engine at compile time.
var _ Engine = (*Beep)(nil)
