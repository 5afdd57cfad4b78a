//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/api"
	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playback"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

const requestTimeout = 5 * time.Second

// Commands is where MPRIS control requests are sent. Going through the
// dispatcher keeps remote delegation in effect.
type Commands interface {
	Control(ctx context.Context, req api.Request) (api.Reply, error)
}

// Status is the read side of the playback session.
type Status interface {
	State() playback.State
	CurrentTrack() (playlist.Track, bool)
	Position() (position, duration time.Duration)
	Volume() int
	LoopMode() playback.LoopMode
	Tracks() []playlist.Track
}

// Adapter exposes the player on the session bus as
// org.mpris.MediaPlayer2.<name>.
type Adapter struct {
	server *server.Server
	logger *zap.Logger
}

// New creates and starts a new MPRIS adapter.
func New(name string, cmds Commands, status Status, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{logger: logger}

	root := &rootAdapter{identity: name}
	player := &playerAdapter{cmds: cmds, status: status}
	a.server = server.NewServer(name, root, player)

	go func() {
		if err := a.server.Listen(); err != nil {
			logger.Warn(errmsg.Format(errmsg.OpMprisStart, err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct {
	identity string
}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // The daemon manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return r.identity, nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// status extension.
type playerAdapter struct {
	cmds   Commands
	status Status
}

func (p *playerAdapter) control(req api.Request) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	_, err := p.cmds.Control(ctx, req)
	return err
}

func (p *playerAdapter) command(cmd string) error {
	return p.control(api.Request{Value: cmd})
}

func (p *playerAdapter) Next() error {
	return p.command(api.CmdNext)
}

func (p *playerAdapter) Previous() error {
	return p.command(api.CmdPrevious)
}

func (p *playerAdapter) Pause() error {
	return p.command(api.CmdPause)
}

func (p *playerAdapter) PlayPause() error {
	if p.status.State() == playback.StatePlaying {
		return p.command(api.CmdPause)
	}
	return p.command(api.CmdPlay)
}

func (p *playerAdapter) Stop() error {
	return p.command(api.CmdStop)
}

func (p *playerAdapter) Play() error {
	return p.command(api.CmdPlay)
}

// Seek moves relative to the current position.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	ms := time.Duration(offset) * time.Microsecond / time.Millisecond
	if ms < 0 {
		return p.control(api.Request{Value: api.CmdRewind, Position: int64(-ms)})
	}
	return p.control(api.Request{Value: api.CmdFastForward, Position: int64(ms)})
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	// Requests for a track that is no longer current are ignored.
	if t, ok := p.status.CurrentTrack(); !ok || formatTrackID(t.Path) != trackID {
		return nil
	}
	ms := time.Duration(position) * time.Microsecond / time.Millisecond
	return p.control(api.Request{Value: api.CmdSeek, Position: int64(ms)})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.status.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track, ok := p.status.CurrentTrack()
	if !ok {
		return types.Metadata{}, nil
	}

	length := time.Duration(track.Duration) * time.Millisecond
	if _, d := p.status.Position(); d > 0 {
		length = d
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.Path)),
		Length:  types.Microseconds(length.Microseconds()),
		Title:   track.Title,
		Album:   track.Album,
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	if track.Genre != "" {
		meta.Genre = []string{track.Genre}
	}
	if artPath := FindAlbumArt(track.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return float64(p.status.Volume()) / 100, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	level := int(math.Round(max(0, min(v, 1)) * 100))
	return p.control(api.Request{Value: api.CmdVolume, Volume: level})
}

func (p *playerAdapter) Position() (int64, error) {
	pos, _ := p.status.Position()
	return pos.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.status.Tracks()) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.status.Tracks()) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.status.Tracks()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	switch p.status.LoopMode() {
	case playback.LoopTrack:
		return types.LoopStatusTrack, nil
	case playback.LoopPlaylist:
		return types.LoopStatusPlaylist, nil
	case playback.LoopOff:
		return types.LoopStatusNone, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	var mode playback.LoopMode
	switch status {
	case types.LoopStatusTrack:
		mode = playback.LoopTrack
	case types.LoopStatusPlaylist:
		mode = playback.LoopPlaylist
	default:
		mode = playback.LoopOff
	}
	return p.control(api.Request{Value: api.CmdLoop, State: mode.String()})
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
