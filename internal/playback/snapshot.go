package playback

import (
	"github.com/samber/lo"

	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

// Metadata status values.
const (
	StatusPlaying = "playing"
	StatusStopped = "stopped"
)

// TrackJSON is the wire form of a playlist entry.
type TrackJSON struct {
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	Album    string `json:"album,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Duration int64  `json:"duration,omitempty"`
	Index    int    `json:"index"`
	Selected *bool  `json:"selected,omitempty"`
}

// PlaylistEvent is published on the playlist topic and returned by
// get_playlist.
type PlaylistEvent struct {
	List []TrackJSON `json:"list"`
}

// MetadataEvent is published on the metadata topic.
type MetadataEvent struct {
	Status   string     `json:"status,omitempty"`
	Position *int64     `json:"position,omitempty"`
	Volume   *int       `json:"volume,omitempty"`
	Track    *TrackJSON `json:"track,omitempty"`
}

// ImageJSON carries album art discovered in the stream's tags.
type ImageJSON struct {
	Image string `json:"image"`
}

// TagEvent is published on the metadata topic when album art is found.
type TagEvent struct {
	Track ImageJSON `json:"track"`
}

// RemoteEvent is published on the metadata topic when the remote peer
// connects or disconnects.
type RemoteEvent struct {
	Connected bool `json:"connected"`
}

// playlistLocked builds the playlist snapshot. Only audio tracks are listed.
func (s *Session) playlistLocked() PlaylistEvent {
	list := lo.FilterMap(s.store.Tracks(), func(t playlist.Track, _ int) (TrackJSON, bool) {
		return s.trackJSONLocked(t), t.IsAudio()
	})
	return PlaylistEvent{List: list}
}

// metadataLocked builds the metadata snapshot of the current track with the
// cached position, duration and volume.
func (s *Session) metadataLocked() MetadataEvent {
	volume := s.volume
	ev := MetadataEvent{Volume: &volume}

	t, ok := s.currentTrackLocked()
	if !ok {
		return ev
	}
	track := s.trackJSONLocked(t)
	if s.hasDuration {
		track.Duration = s.duration.Milliseconds()
	}
	ev.Track = &track
	if s.hasPosition {
		pos := s.position.Milliseconds()
		ev.Position = &pos
	}
	return ev
}

func (s *Session) trackJSONLocked(t playlist.Track) TrackJSON {
	j := TrackJSON{
		Path:   t.Path,
		Title:  t.Title,
		Album:  t.Album,
		Artist: t.Artist,
		Genre:  t.Genre,
		Index:  t.ID,
	}
	if t.Duration > 0 {
		j.Duration = t.Duration
	}
	if s.hasCurrent {
		j.Selected = lo.ToPtr(t.ID == s.current)
	}
	return j
}
