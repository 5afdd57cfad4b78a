// internal/playback/state.go
package playback

import "strings"

// State represents the playback state seen by clients.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// LoopMode defines what happens when a track reaches its end.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopPlaylist
	LoopTrack
)

// String returns the wire name of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopOff:
		return "off"
	case LoopPlaylist:
		return "playlist"
	case LoopTrack:
		return "track"
	default:
		return "unknown"
	}
}

// ParseLoopMode maps a wire name to a loop mode. Unrecognized values fall
// back to LoopOff.
func ParseLoopMode(s string) LoopMode {
	switch strings.TrimSpace(s) {
	case "playlist":
		return LoopPlaylist
	case "track":
		return LoopTrack
	default:
		return LoopOff
	}
}
