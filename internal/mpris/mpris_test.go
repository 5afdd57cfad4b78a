//go:build linux

package mpris

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediaplayerd/internal/api"
	"github.com/llehouerou/mediaplayerd/internal/playback"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

type fakeCommands struct {
	requests []api.Request
	err      error
}

func (f *fakeCommands) Control(_ context.Context, req api.Request) (api.Reply, error) {
	f.requests = append(f.requests, req)
	return api.Reply{}, f.err
}

type fakeStatus struct {
	state    playback.State
	track    playlist.Track
	hasTrack bool
	position time.Duration
	duration time.Duration
	volume   int
	loop     playback.LoopMode
	tracks   []playlist.Track
}

func (f *fakeStatus) State() playback.State { return f.state }

func (f *fakeStatus) CurrentTrack() (playlist.Track, bool) { return f.track, f.hasTrack }

func (f *fakeStatus) Position() (time.Duration, time.Duration) { return f.position, f.duration }

func (f *fakeStatus) Volume() int { return f.volume }

func (f *fakeStatus) LoopMode() playback.LoopMode { return f.loop }

func (f *fakeStatus) Tracks() []playlist.Track { return f.tracks }

func newPlayer() (*playerAdapter, *fakeCommands, *fakeStatus) {
	cmds := &fakeCommands{}
	status := &fakeStatus{volume: 50}
	return &playerAdapter{cmds: cmds, status: status}, cmds, status
}

func TestPlayerAdapter_Transport(t *testing.T) {
	p, cmds, _ := newPlayer()

	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())
	require.NoError(t, p.Stop())
	require.NoError(t, p.Next())
	require.NoError(t, p.Previous())

	var got []any
	for _, r := range cmds.requests {
		got = append(got, r.Value)
	}
	assert.Equal(t, []any{api.CmdPlay, api.CmdPause, api.CmdStop, api.CmdNext, api.CmdPrevious}, got)
}

func TestPlayerAdapter_PlayPause(t *testing.T) {
	p, cmds, status := newPlayer()

	status.state = playback.StatePlaying
	require.NoError(t, p.PlayPause())
	status.state = playback.StatePaused
	require.NoError(t, p.PlayPause())

	require.Len(t, cmds.requests, 2)
	assert.Equal(t, api.CmdPause, cmds.requests[0].Value)
	assert.Equal(t, api.CmdPlay, cmds.requests[1].Value)
}

func TestPlayerAdapter_Seek(t *testing.T) {
	p, cmds, _ := newPlayer()

	require.NoError(t, p.Seek(types.Microseconds(2_500_000)))
	require.NoError(t, p.Seek(types.Microseconds(-1_000_000)))

	require.Len(t, cmds.requests, 2)
	assert.Equal(t, api.Request{Value: api.CmdFastForward, Position: int64(2500)}, cmds.requests[0])
	assert.Equal(t, api.Request{Value: api.CmdRewind, Position: int64(1000)}, cmds.requests[1])
}

func TestPlayerAdapter_SetPosition(t *testing.T) {
	p, cmds, status := newPlayer()
	status.track = playlist.Track{ID: 0, Item: playlist.Item{Path: "file:///music/a.mp3", Type: "audio"}}
	status.hasTrack = true

	require.NoError(t, p.SetPosition(formatTrackID("file:///music/b.mp3"), 1_000_000))
	assert.Empty(t, cmds.requests, "stale track id should be ignored")

	require.NoError(t, p.SetPosition(formatTrackID("file:///music/a.mp3"), 42_000_000))
	require.Len(t, cmds.requests, 1)
	assert.Equal(t, api.Request{Value: api.CmdSeek, Position: int64(42000)}, cmds.requests[0])
}

func TestPlayerAdapter_PlaybackStatus(t *testing.T) {
	p, _, status := newPlayer()

	tests := []struct {
		state playback.State
		want  types.PlaybackStatus
	}{
		{playback.StatePlaying, types.PlaybackStatusPlaying},
		{playback.StatePaused, types.PlaybackStatusPaused},
		{playback.StateStopped, types.PlaybackStatusStopped},
	}
	for _, tt := range tests {
		status.state = tt.state
		got, err := p.PlaybackStatus()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "state %v", tt.state)
	}
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p, _, status := newPlayer()

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, types.Metadata{}, meta, "no current track")

	dir := t.TempDir()
	cover := filepath.Join(dir, "cover.png")
	require.NoError(t, os.WriteFile(cover, []byte("fake"), 0o600))

	status.track = playlist.Track{ID: 3, Item: playlist.Item{
		Path:     "file://" + filepath.Join(dir, "a.flac"),
		Type:     "audio",
		Title:    "Song",
		Album:    "Album",
		Artist:   "Artist",
		Duration: 90000,
	}}
	status.hasTrack = true

	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Song", meta.Title)
	assert.Equal(t, "Album", meta.Album)
	assert.Equal(t, []string{"Artist"}, meta.Artist)
	assert.Nil(t, meta.Genre)
	assert.Equal(t, types.Microseconds(90_000_000), meta.Length)
	assert.Equal(t, "file://"+cover, meta.ArtUrl)
	assert.Equal(t, formatTrackID(status.track.Path), string(meta.TrackId))

	status.duration = 2 * time.Minute
	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, types.Microseconds(120_000_000), meta.Length, "pipeline duration wins")
}

func TestPlayerAdapter_Volume(t *testing.T) {
	p, cmds, status := newPlayer()
	status.volume = 80

	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, v, 1e-9)

	require.NoError(t, p.SetVolume(0.254))
	require.NoError(t, p.SetVolume(3))
	require.Len(t, cmds.requests, 2)
	assert.Equal(t, 25, cmds.requests[0].Volume)
	assert.Equal(t, 100, cmds.requests[1].Volume)
}

func TestPlayerAdapter_LoopStatus(t *testing.T) {
	p, cmds, status := newPlayer()

	status.loop = playback.LoopTrack
	got, err := p.LoopStatus()
	require.NoError(t, err)
	assert.Equal(t, types.LoopStatusTrack, got)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusPlaylist))
	require.NoError(t, p.SetLoopStatus(types.LoopStatusNone))
	require.Len(t, cmds.requests, 2)
	assert.Equal(t, "playlist", cmds.requests[0].State)
	assert.Equal(t, "off", cmds.requests[1].State)
}

func TestPlayerAdapter_PositionAndCapabilities(t *testing.T) {
	p, _, status := newPlayer()
	status.position = 1500 * time.Millisecond

	pos, err := p.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), pos)

	canPlay, err := p.CanPlay()
	require.NoError(t, err)
	assert.False(t, canPlay, "empty playlist")

	status.tracks = []playlist.Track{{ID: 0}}
	canPlay, err = p.CanPlay()
	require.NoError(t, err)
	assert.True(t, canPlay)
}

func TestFormatTrackID(t *testing.T) {
	a := formatTrackID("file:///a.mp3")
	assert.Equal(t, a, formatTrackID("file:///a.mp3"))
	assert.NotEqual(t, a, formatTrackID("file:///b.mp3"))
	assert.Contains(t, a, "/org/mpris/MediaPlayer2/Track/")
}
