// internal/player/state.go
package player

// State represents the pipeline state machine.
//
//	┌──────────┐      load       ┌──────────┐
//	│   Null   │ ───────────────▶│  Paused  │
//	└──────────┘                 └──────────┘
//	     ▲  │                       │    ▲
//	     │  │ play            play  │    │ pause
//	     │  │                       ▼    │
//	     │  │                    ┌──────────┐
//	     │  └───────────────────▶│  Playing │
//	     │          stop         └──────────┘
//	     └──────────────────────────────┘
//
// Load always lands in Paused. Play from Null restarts the last loaded media.
// Stop from any state releases the stream and lands in Null.
type State int

const (
	Null State = iota
	Paused
	Playing
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Null:
		return "Null"
	case Paused:
		return "Paused"
	case Playing:
		return "Playing"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is open (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
