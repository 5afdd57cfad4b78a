// Package api is the command surface of the media player: playlist access,
// playback control and event subscriptions.
package api

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playback"
	"github.com/llehouerou/mediaplayerd/internal/remote"
)

// Dispatcher routes commands to the playback session or, while a remote peer
// is connected, to the remote controller.
type Dispatcher struct {
	session *playback.Session
	remote  remote.Controller
	logger  *zap.Logger
}

// New creates a dispatcher. controller may be nil when no remote peer can
// ever be connected.
func New(session *playback.Session, controller remote.Controller, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{session: session, remote: controller, logger: logger}
}

// GetPlaylist returns the playlist snapshot.
func (d *Dispatcher) GetPlaylist() playback.PlaylistEvent {
	return d.session.PlaylistSnapshot()
}

// GetMetadata returns the metadata snapshot of the current track.
func (d *Dispatcher) GetMetadata() playback.MetadataEvent {
	return d.session.MetadataSnapshot()
}

// SetPlaylist replaces the playlist with a JSON array of track dicts.
func (d *Dispatcher) SetPlaylist(data json.RawMessage) error {
	items, err := DecodeItems(data)
	if err != nil {
		return &errmsg.Failure{Kind: errmsg.ErrValidation, Reason: errmsg.ReasonInvalidPlaylist, Err: err}
	}
	return d.session.ReplacePlaylist(items)
}

// Subscribe registers a listener on the named topic.
func (d *Dispatcher) Subscribe(topic string) (*playback.Subscription, error) {
	t, ok := playback.ParseTopic(topic)
	if !ok {
		return nil, errmsg.Validation(errmsg.ReasonInvalidEvent)
	}
	return d.session.Subscribe(t), nil
}

// Unsubscribe removes a listener previously returned by Subscribe.
func (d *Dispatcher) Unsubscribe(topic string, sub *playback.Subscription) error {
	t, ok := playback.ParseTopic(topic)
	if !ok || sub == nil || sub.Topic != t {
		return errmsg.Validation(errmsg.ReasonInvalidEvent)
	}
	d.session.Publisher().Unsubscribe(sub)
	return nil
}

// Control executes one playback command.
func (d *Dispatcher) Control(ctx context.Context, req Request) (Reply, error) {
	cmd, ok := req.Command()
	if !ok {
		return Reply{}, errmsg.Validation(errmsg.ReasonNoValue)
	}

	if remote.IsLinkAction(cmd) || d.session.RemoteActive() {
		err := remote.Forward(ctx, d.remote, cmd)
		if err != nil {
			d.logger.Debug("remote control failed", zap.String("command", cmd), zap.Error(err))
		}
		return Reply{}, err
	}
	return d.local(cmd, req)
}

func (d *Dispatcher) local(cmd string, req Request) (Reply, error) {
	s := d.session
	switch cmd {
	case CmdPlay:
		if err := s.Play(); err != nil {
			return Reply{}, err
		}
		return playingReply(true), nil
	case CmdPause:
		s.Pause()
		return playingReply(false), nil
	case CmdStop:
		s.Stop()
	case CmdNext:
		return Reply{}, s.Next()
	case CmdPrevious:
		return Reply{}, s.Previous()
	case CmdSeek, CmdFastForward, CmdRewind:
		ms, err := toInt64(req.Position)
		if err != nil {
			return Reply{}, errmsg.Validation(errmsg.ReasonInvalid)
		}
		switch cmd {
		case CmdSeek:
			return Reply{}, s.SeekTo(ms)
		case CmdFastForward:
			return Reply{}, s.FastForward(ms)
		default:
			return Reply{}, s.Rewind(ms)
		}
	case CmdPickTrack:
		id, err := toInt64(req.Index)
		if err != nil {
			return Reply{}, errmsg.Validation(errmsg.ReasonInvalidIndex)
		}
		return Reply{}, s.PickTrack(int(id))
	case CmdVolume:
		v, err := toInt64(req.Volume)
		if err != nil {
			return Reply{}, errmsg.Validation(errmsg.ReasonInvalidVolume)
		}
		s.SetVolume(int(max(0, min(v, 100))))
	case CmdLoop:
		state, _ := cast.ToStringE(req.State)
		s.SetLoopMode(playback.ParseLoopMode(state))
	default:
		return Reply{}, errmsg.Unsupported(errmsg.ReasonUnknownCommand)
	}
	return Reply{}, nil
}

// RemotePeerChanged is the notification from the device manager that the
// remote peer connected or disconnected.
func (d *Dispatcher) RemotePeerChanged(connected bool) {
	d.logger.Info("remote peer", zap.Bool("connected", connected))
	d.session.SetRemoteActive(connected)
}

// toInt64 converts a numeric parameter. Strings are read as base-10
// decimals; JSON numbers and other types go through cast.
func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, errmsg.ErrValidation
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return cast.ToInt64E(v)
	}
}

func playingReply(playing bool) Reply {
	return Reply{Playing: &playing}
}
