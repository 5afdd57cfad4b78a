package api

import (
	"encoding/json"

	"github.com/spf13/cast"

	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

// Command names accepted by Control.
const (
	CmdPlay        = "play"
	CmdPause       = "pause"
	CmdStop        = "stop"
	CmdNext        = "next"
	CmdPrevious    = "previous"
	CmdSeek        = "seek"
	CmdFastForward = "fast-forward"
	CmdRewind      = "rewind"
	CmdPickTrack   = "pick-track"
	CmdVolume      = "volume"
	CmdLoop        = "loop"
)

// Request carries the parameters of a control call as received. Numeric
// parameters may arrive as JSON numbers or numeric strings.
type Request struct {
	Value    any `json:"value,omitempty"`
	Position any `json:"position,omitempty"`
	Index    any `json:"index,omitempty"`
	Volume   any `json:"volume,omitempty"`
	State    any `json:"state,omitempty"`
}

// Command returns the command name, if one was passed.
func (r Request) Command() (string, bool) {
	if r.Value == nil {
		return "", false
	}
	s, err := cast.ToStringE(r.Value)
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

// Reply is the payload of a successful control call.
type Reply struct {
	Playing *bool `json:"playing,omitempty"`
}

// wireItem is a track dict as sent by callers. Path and type are pointers so
// a missing field can be told apart from an empty one.
type wireItem struct {
	Path     *string `json:"path"`
	Type     *string `json:"type"`
	Title    any     `json:"title"`
	Album    any     `json:"album"`
	Artist   any     `json:"artist"`
	Genre    any     `json:"genre"`
	Duration any     `json:"duration"`
}

// DecodeItems parses a JSON array of track dicts. Entries missing a path or
// type, or that are not objects, are skipped.
func DecodeItems(data []byte) ([]playlist.Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]playlist.Item, 0, len(raw))
	for _, r := range raw {
		var w wireItem
		if err := json.Unmarshal(r, &w); err != nil {
			continue
		}
		if w.Path == nil || w.Type == nil {
			continue
		}
		items = append(items, playlist.Item{
			Path:     *w.Path,
			Type:     *w.Type,
			Title:    cast.ToString(w.Title),
			Album:    cast.ToString(w.Album),
			Artist:   cast.ToString(w.Artist),
			Genre:    cast.ToString(w.Genre),
			Duration: duration(w.Duration),
		})
	}
	return items, nil
}

// duration reads an optional duration in milliseconds; anything that is not
// a number is unknown.
func duration(v any) int64 {
	ms, err := toInt64(v)
	if err != nil {
		return 0
	}
	return ms
}
