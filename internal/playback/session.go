// Package playback owns the playback session: the playlist, the current
// track, the pipeline and the events published about them. Every operation
// runs inside the session's single critical section.
package playback

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/player"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

const (
	// DefaultVolume is the playback volume in percent before any change.
	DefaultVolume = 50
	// DefaultTickInterval is the period of the position/metadata tick.
	DefaultTickInterval = time.Second
)

// Preferences receives the settings worth keeping across restarts.
type Preferences interface {
	VolumeChanged(level int)
	LoopModeChanged(mode LoopMode)
}

// Options configures a Session.
type Options struct {
	TickInterval time.Duration
	Volume       int
	LoopMode     LoopMode
	Preferences  Preferences
	Logger       *zap.Logger
}

// DefaultOptions returns the options a session starts with when nothing is
// configured.
func DefaultOptions() Options {
	return Options{
		TickInterval: DefaultTickInterval,
		Volume:       DefaultVolume,
	}
}

// Session is the playback state machine.
type Session struct {
	mu sync.Mutex

	engine player.Engine
	store  *playlist.Store
	pub    *Publisher
	prefs  Preferences
	logger *zap.Logger
	tick   time.Duration

	current    int
	hasCurrent bool
	playing    bool
	// armed is true when the current track is loaded for audible output;
	// a prepared track is loaded but must be reloaded before playing.
	armed  bool
	loop   LoopMode
	volume int

	position    time.Duration
	hasPosition bool
	duration    time.Duration
	hasDuration bool

	remoteActive   bool
	pendingStopped bool
}

// New creates a session driving engine.
func New(engine player.Engine, opts Options) *Session {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Session{
		engine: engine,
		store:  playlist.NewStore(),
		pub:    NewPublisher(),
		prefs:  opts.Preferences,
		logger: opts.Logger,
		tick:   opts.TickInterval,
		loop:   opts.LoopMode,
		volume: clampVolume(opts.Volume),
	}
}

// Publisher returns the session's event publisher.
func (s *Session) Publisher() *Publisher {
	return s.pub
}

// Subscribe registers a listener on topic and sends it the current snapshot
// of that topic.
func (s *Session) Subscribe(topic Topic) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := s.pub.Subscribe(topic)
	switch topic {
	case TopicMetadata:
		sub.send(Message{Topic: topic, Payload: s.metadataLocked()})
	case TopicPlaylist:
		sub.send(Message{Topic: topic, Payload: s.playlistLocked()})
	}
	return sub
}

// State derives the client-visible state from the playing flag and the
// pipeline.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.playing:
		return StatePlaying
	case s.armed && s.engine.State() == player.Paused:
		return StatePaused
	default:
		return StateStopped
	}
}

// CurrentTrack returns the current track, if any.
func (s *Session) CurrentTrack() (playlist.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTrackLocked()
}

// Playing reports the playing flag.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// LoopMode returns the current loop mode.
func (s *Session) LoopMode() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Volume returns the playback volume in percent.
func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// RemoteActive reports whether commands are delegated to a remote peer.
func (s *Session) RemoteActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteActive
}

// Position returns the last known position and duration of the current
// track.
func (s *Session) Position() (position, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos, ok := s.engine.Position(); ok {
		position = pos
	}
	if s.hasDuration {
		duration = s.duration
	}
	return position, duration
}

// PlaylistSnapshot returns the playlist as published on the playlist topic.
func (s *Session) PlaylistSnapshot() PlaylistEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlistLocked()
}

// MetadataSnapshot returns the current track metadata.
func (s *Session) MetadataSnapshot() MetadataEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadataLocked()
}

// ReplacePlaylist replaces the playlist contents. The head of the new
// playlist becomes current and is prepared paused.
func (s *Session) ReplacePlaylist(items []playlist.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.store.Replace(items)
	s.hasCurrent = false
	s.prepareHeadLocked()
	s.publishPlaylistLocked()

	if n == 0 {
		s.engine.Stop()
		s.playing = false
		s.armed = false
		return errmsg.Validation(errmsg.ReasonInvalidPlaylist)
	}
	return nil
}

// CatalogAdded appends newly discovered media. If nothing was current, the
// playlist head becomes current and is prepared paused.
func (s *Session) CatalogAdded(items []playlist.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.store.AppendUnique(items)
	s.logger.Debug("catalog items added", zap.Int("count", len(added)))
	if !s.hasCurrent {
		s.prepareHeadLocked()
	}
	s.publishPlaylistLocked()
}

// CatalogRemoved drops every track whose path starts with prefix. Removing
// the current track stops the pipeline and queues a stopped event.
func (s *Session) CatalogRemoved(prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.store.RemoveByPathPrefix(prefix)
	s.logger.Debug("catalog items removed",
		zap.String("prefix", prefix), zap.Int("count", len(removed)))

	if s.hasCurrent && !s.store.Contains(s.current) {
		s.engine.Stop()
		s.playing = false
		s.armed = false
		s.pendingStopped = true
		s.hasCurrent = false
		s.prepareHeadLocked()
	}
	s.publishPlaylistLocked()
}

// SetRemoteActive records the remote peer's connection state. Connecting
// pauses local output; disconnecting publishes a stopped event.
func (s *Session) SetRemoteActive(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remoteActive = connected
	if connected {
		s.engine.Pause()
		s.playing = false
	} else {
		ev := s.metadataLocked()
		ev.Status = StatusStopped
		s.pub.Publish(TopicMetadata, ev)
	}
	s.pub.Publish(TopicMetadata, RemoteEvent{Connected: connected})
}

// Close stops the pipeline and closes all subscriptions.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Stop()
	s.playing = false
	s.pub.Close()
	return nil
}

func (s *Session) currentTrackLocked() (playlist.Track, bool) {
	if !s.hasCurrent {
		return playlist.Track{}, false
	}
	return s.store.Find(s.current)
}

// prepareHeadLocked makes the playlist head current and loads it paused.
func (s *Session) prepareHeadLocked() {
	head, ok := s.store.First()
	if !ok {
		s.hasCurrent = false
		return
	}
	if err := s.loadLocked(head, false); err != nil {
		s.logger.Warn(errmsg.FormatWith(errmsg.OpPipelineLoad, head.Path, err))
	}
}

// loadLocked replaces the pipeline media with t. With play set the track is
// armed and output starts; otherwise it is prepared paused.
func (s *Session) loadLocked(t playlist.Track, play bool) error {
	s.current = t.ID
	s.hasCurrent = true

	s.engine.Stop()
	s.position, s.hasPosition = 0, false
	s.duration, s.hasDuration = 0, false
	s.armed = false

	if err := s.engine.Load(t.Path); err != nil {
		s.playing = false
		return err
	}
	s.engine.SetVolume(s.volume)

	if !play {
		s.engine.Pause()
		s.playing = false
		return nil
	}
	s.armed = true
	if err := s.engine.Play(); err != nil {
		s.playing = false
		return err
	}
	s.playing = true
	return nil
}

func (s *Session) publishPlaylistLocked() {
	s.pub.Publish(TopicPlaylist, s.playlistLocked())
}

func clampVolume(v int) int {
	return max(0, min(100, v))
}
