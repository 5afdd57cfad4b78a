// Package playlist holds the ordered track collection the playback session
// navigates. Tracks are addressed by a stable integer id; order is insertion
// order. A Store is not safe for concurrent use.
package playlist

import "strings"

// Item is a track description as supplied by a caller or the media catalog.
type Item struct {
	Path     string // media URI, unique within the playlist
	Type     string // "audio" or "video"
	Title    string
	Album    string
	Artist   string
	Genre    string
	Duration int64 // milliseconds, 0 if unknown
}

// Valid reports whether the item carries the required path and type.
func (i Item) Valid() bool {
	return i.Path != "" && i.Type != ""
}

// Track is an item that has been inserted into a playlist.
type Track struct {
	ID int
	Item
}

// IsAudio reports whether the track is listed in playlist snapshots.
func (t Track) IsAudio() bool {
	return t.Type == "audio"
}

// Store holds an ordered collection of tracks.
type Store struct {
	tracks []Track
	index  map[int]int // id -> position in tracks
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{
		tracks: make([]Track, 0),
		index:  make(map[int]int),
	}
}

// Replace clears the store and appends all valid, unique items with ids
// starting at 0. Returns the number of tracks inserted.
func (s *Store) Replace(items []Item) int {
	s.tracks = s.tracks[:0]
	s.index = make(map[int]int, len(items))
	return len(s.AppendUnique(items))
}

// AppendUnique appends valid items whose path is not already present.
// Ids continue from the last track's id. Returns the inserted tracks.
func (s *Store) AppendUnique(items []Item) []Track {
	nextID := 0
	if n := len(s.tracks); n > 0 {
		nextID = s.tracks[n-1].ID + 1
	}

	var added []Track
	for _, item := range items {
		if !item.Valid() || s.hasPath(item.Path) {
			continue
		}
		t := Track{ID: nextID, Item: item}
		nextID++
		s.index[t.ID] = len(s.tracks)
		s.tracks = append(s.tracks, t)
		added = append(added, t)
	}
	return added
}

// RemoveByPathPrefix removes every track whose path starts with prefix,
// ignoring ASCII case. Returns the removed tracks.
func (s *Store) RemoveByPathPrefix(prefix string) []Track {
	var removed []Track
	kept := s.tracks[:0]
	for _, t := range s.tracks {
		if hasPrefixFold(t.Path, prefix) {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) == 0 {
		return nil
	}
	s.tracks = kept
	s.reindex()
	return removed
}

// Find returns the track with the given id.
func (s *Store) Find(id int) (Track, bool) {
	pos, ok := s.index[id]
	if !ok {
		return Track{}, false
	}
	return s.tracks[pos], true
}

// Contains reports whether a track with the given id exists.
func (s *Store) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// First returns the head of the playlist.
func (s *Store) First() (Track, bool) {
	if len(s.tracks) == 0 {
		return Track{}, false
	}
	return s.tracks[0], true
}

// NextOf returns the track following id in insertion order.
func (s *Store) NextOf(id int) (Track, bool) {
	pos, ok := s.index[id]
	if !ok || pos+1 >= len(s.tracks) {
		return Track{}, false
	}
	return s.tracks[pos+1], true
}

// PreviousOf returns the track preceding id in insertion order.
func (s *Store) PreviousOf(id int) (Track, bool) {
	pos, ok := s.index[id]
	if !ok || pos == 0 {
		return Track{}, false
	}
	return s.tracks[pos-1], true
}

// SetDuration records the duration of a track once the pipeline knows it.
func (s *Store) SetDuration(id int, ms int64) bool {
	pos, ok := s.index[id]
	if !ok || ms < 0 {
		return false
	}
	s.tracks[pos].Duration = ms
	return true
}

// Tracks returns a copy of all tracks.
func (s *Store) Tracks() []Track {
	result := make([]Track, len(s.tracks))
	copy(result, s.tracks)
	return result
}

// Len returns the number of tracks.
func (s *Store) Len() int {
	return len(s.tracks)
}

func (s *Store) hasPath(path string) bool {
	for i := range s.tracks {
		if s.tracks[i].Path == path {
			return true
		}
	}
	return false
}

func (s *Store) reindex() {
	s.index = make(map[int]int, len(s.tracks))
	for i, t := range s.tracks {
		s.index[t.ID] = i
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
