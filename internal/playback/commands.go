package playback

import (
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/playlist"
)

// Play starts output of the current track, loading it first if it was only
// prepared.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		if err := s.engine.Play(); err != nil {
			return err
		}
		s.playing = true
		return nil
	}

	t, ok := s.currentTrackLocked()
	if !ok {
		if t, ok = s.store.First(); !ok {
			return errmsg.Validation(errmsg.ReasonNoPlaylist)
		}
	}
	return s.loadLocked(t, true)
}

// Pause pauses output and publishes a stopped metadata event.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Pause()
	s.playing = false

	ev := s.metadataLocked()
	ev.Status = StatusStopped
	s.pub.Publish(TopicMetadata, ev)
}

// Stop releases the pipeline stream.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Stop()
	s.playing = false
}

// Next plays the track after the current one. At the tail it wraps to the
// head only when looping the playlist.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

func (s *Session) nextLocked() error {
	cur, ok := s.currentTrackLocked()
	if !ok {
		return errmsg.Validation(errmsg.ReasonInvalid)
	}
	next, ok := s.store.NextOf(cur.ID)
	if !ok && s.loop == LoopPlaylist {
		next, ok = s.store.First()
	}
	if !ok {
		return errmsg.Validation(errmsg.ReasonInvalid)
	}
	return s.loadLocked(next, true)
}

// Previous plays the track before the current one. At the head it restarts
// the current track instead.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.currentTrackLocked()
	if !ok {
		return errmsg.Validation(errmsg.ReasonInvalid)
	}
	prev, ok := s.store.PreviousOf(cur.ID)
	if !ok {
		return s.seekLocked(0)
	}
	return s.loadLocked(prev, true)
}

// SeekTo moves to an absolute position in milliseconds, clamped to the track.
func (s *Session) SeekTo(ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekLocked(time.Duration(ms) * time.Millisecond)
}

// FastForward moves forward from the current position by ms milliseconds.
func (s *Session) FastForward(ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekRelativeLocked(time.Duration(ms) * time.Millisecond)
}

// Rewind moves back from the current position by ms milliseconds.
func (s *Session) Rewind(ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekRelativeLocked(-time.Duration(ms) * time.Millisecond)
}

func (s *Session) seekRelativeLocked(delta time.Duration) error {
	pos, _ := s.engine.Position()
	return s.seekLocked(pos + delta)
}

func (s *Session) seekLocked(target time.Duration) error {
	if !s.hasCurrent {
		return errmsg.Validation(errmsg.ReasonInvalid)
	}
	target = max(0, target)
	if d, ok := s.durationLocked(); ok && d > 0 {
		target = min(target, d)
	}
	if err := s.engine.Seek(target); err != nil {
		return &errmsg.Failure{Kind: errmsg.ErrValidation, Reason: errmsg.ReasonInvalid, Err: err}
	}
	s.position, s.hasPosition = target, true
	return nil
}

// PickTrack plays the track with the given id.
func (s *Session) PickTrack(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.store.Find(id)
	if !ok {
		return errmsg.NotFound(errmsg.ReasonIndexNotFound)
	}
	return s.loadLocked(t, true)
}

// SetVolume applies a volume level, clamped to [0, 100].
func (s *Session) SetVolume(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(level)
	s.engine.SetVolume(s.volume)
	if s.prefs != nil {
		s.prefs.VolumeChanged(s.volume)
	}
}

// SetLoopMode sets what happens at the end of a track.
func (s *Session) SetLoopMode(mode LoopMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loop = mode
	if s.prefs != nil {
		s.prefs.LoopModeChanged(mode)
	}
}

// Restore applies saved preferences without reporting them back.
func (s *Session) Restore(volume int, mode LoopMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(volume)
	s.loop = mode
	s.engine.SetVolume(s.volume)
	s.logger.Debug("preferences restored",
		zap.Int("volume", s.volume), zap.Stringer("loop", mode))
}

// Tracks returns the playlist contents, including non-audio entries.
func (s *Session) Tracks() []playlist.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tracks()
}

// durationLocked returns the cached duration, querying the pipeline once if
// it is not known yet.
func (s *Session) durationLocked() (time.Duration, bool) {
	if s.hasDuration {
		return s.duration, true
	}
	d, ok := s.engine.Duration()
	if !ok {
		return 0, false
	}
	s.duration, s.hasDuration = d, true
	if s.hasCurrent {
		s.store.SetDuration(s.current, d.Milliseconds())
	}
	return d, true
}
