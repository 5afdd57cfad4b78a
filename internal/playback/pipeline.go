package playback

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/player"
	"github.com/llehouerou/mediaplayerd/internal/tags"
)

// Run consumes pipeline events and timer ticks until ctx is done. Each item
// is handled inside the session lock, one at a time.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	events := s.engine.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.HandleEvent(ev)
		case <-ticker.C:
			s.Tick()
		}
	}
}

// HandleEvent applies one pipeline notification.
func (s *Session) HandleEvent(ev player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.currentTrackLocked(); ok && ev.URI != "" && ev.URI != t.Path {
		s.logger.Debug("dropping stale pipeline event",
			zap.Stringer("kind", ev.Kind), zap.String("uri", ev.URI))
		return
	}

	switch ev.Kind {
	case player.EndOfStream:
		s.endOfStreamLocked()
	case player.DurationChanged:
		s.duration, s.hasDuration = 0, false
	case player.TagFound:
		s.tagsLocked(ev.Pictures)
	}
}

// endOfStreamLocked advances after the current track ends. With no successor
// the pipeline stops, the head becomes current and a stopped event is
// queued for the next tick.
func (s *Session) endOfStreamLocked() {
	s.position, s.hasPosition = 0, false
	s.duration, s.hasDuration = 0, false

	var err error
	if s.loop == LoopTrack {
		err = s.seekLocked(0)
	} else {
		err = s.nextLocked()
	}
	if err == nil {
		return
	}

	loopPlaylist := s.loop == LoopPlaylist
	if !loopPlaylist {
		s.engine.Stop()
		s.playing = false
		s.pendingStopped = true
	}
	s.hasCurrent = false
	head, ok := s.store.First()
	if !ok {
		s.armed = false
		return
	}
	if err := s.loadLocked(head, loopPlaylist); err != nil {
		s.logger.Warn(errmsg.FormatWith(errmsg.OpPipelineLoad, head.Path, err))
	}
}

func (s *Session) tagsLocked(pictures []tags.Picture) {
	var image string
	if p := tags.SelectCoverArt(pictures); p != nil {
		image = tags.DataURI(p)
	}
	s.pub.Publish(TopicMetadata, TagEvent{Track: ImageJSON{Image: image}})
}

// Tick publishes the queued stopped event, or while playing refreshes the
// position and publishes a playing metadata event.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingStopped {
		s.pendingStopped = false
		s.pub.Publish(TopicMetadata, MetadataEvent{Status: StatusStopped})
		return
	}
	if !s.playing || !s.hasCurrent {
		return
	}

	s.durationLocked()
	if pos, ok := s.engine.Position(); ok {
		s.position, s.hasPosition = pos, true
	}

	ev := s.metadataLocked()
	ev.Status = StatusPlaying
	s.pub.Publish(TopicMetadata, ev)
}
