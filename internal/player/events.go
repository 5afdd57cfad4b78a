package player

import "github.com/llehouerou/mediaplayerd/internal/tags"

const eventBufferSize = 16

// EventKind identifies a pipeline notification.
type EventKind int

const (
	EndOfStream EventKind = iota
	DurationChanged
	TagFound
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EndOfStream:
		return "end-of-stream"
	case DurationChanged:
		return "duration-changed"
	case TagFound:
		return "tag"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by the pipeline.
type Event struct {
	Kind     EventKind
	URI      string         // media the event belongs to
	Pictures []tags.Picture // TagFound only
}
