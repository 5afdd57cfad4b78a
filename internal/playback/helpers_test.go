package playback

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/llehouerou/mediaplayerd/internal/player"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

func audio(path string) playlist.Item {
	return playlist.Item{Path: path, Type: "audio", Title: path}
}

func newTestSession(t *testing.T, items ...playlist.Item) (*Session, *player.Mock) {
	t.Helper()
	m := player.NewMock()
	opts := DefaultOptions()
	opts.Logger = zaptest.NewLogger(t)
	s := New(m, opts)
	if len(items) > 0 {
		require.NoError(t, s.ReplacePlaylist(items))
	}
	return s, m
}

// drain returns every message currently buffered on sub.
func drain(sub *Subscription) []Message {
	var msgs []Message
	for {
		select {
		case m := <-sub.Events:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func currentPath(t *testing.T, s *Session) string {
	t.Helper()
	tr, ok := s.CurrentTrack()
	require.True(t, ok, "expected a current track")
	return tr.Path
}

type recordingPrefs struct {
	volumes []int
	modes   []LoopMode
}

func (p *recordingPrefs) VolumeChanged(level int)       { p.volumes = append(p.volumes, level) }
func (p *recordingPrefs) LoopModeChanged(mode LoopMode) { p.modes = append(p.modes, mode) }
