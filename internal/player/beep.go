// internal/player/beep.go
package player

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/mediaplayerd/internal/errmsg"
	"github.com/llehouerou/mediaplayerd/internal/tags"
)

// DefaultSampleRate is the output rate the speaker is initialised with.
const DefaultSampleRate = 44100

// deliverRetry is how often a blocked end-of-stream delivery rechecks
// whether its stream is still current.
const deliverRetry = 100 * time.Millisecond

// Beep is an Engine that decodes local files and plays them through the
// default audio device.
type Beep struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate

	uri      string
	state    State
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    int

	// gen identifies the queued stream; callbacks from older streams are dropped.
	gen     atomic.Uint64
	drained atomic.Bool

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBeep initialises the speaker. It fails when no output device is usable.
func NewBeep(sampleRate int) (*Beep, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Beep{
		sampleRate: sr,
		level:      50,
		events:     make(chan Event, eventBufferSize),
		closed:     make(chan struct{}),
	}, nil
}

func (p *Beep) Load(uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeStreamLocked()
	p.uri = uri
	if err := p.openLocked(); err != nil {
		return errmsg.Wrap(errmsg.OpPipelineLoad, uri, err)
	}
	return nil
}

func (p *Beep) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.uri == "" {
		return ErrNotLoaded
	}
	if p.streamer == nil {
		if err := p.openLocked(); err != nil {
			return errmsg.Wrap(errmsg.OpPipelinePlay, p.uri, err)
		}
	}
	if p.drained.Load() {
		if err := p.rewindLocked(0); err != nil {
			return errmsg.Wrap(errmsg.OpPipelinePlay, p.uri, err)
		}
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
	return nil
}

func (p *Beep) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

func (p *Beep) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeStreamLocked()
}

func (p *Beep) Seek(position time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return ErrNotLoaded
	}
	if err := p.rewindLocked(position); err != nil {
		return errmsg.Wrap(errmsg.OpPipelineSeek, p.uri, err)
	}
	return nil
}

func (p *Beep) SetVolume(level int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = max(0, min(100, level))
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.applyVolumeLocked()
	speaker.Unlock()
}

func (p *Beep) Position() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0, false
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos), true
}

func (p *Beep) Duration() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0, false
	}
	return p.format.SampleRate.D(p.streamer.Len()), true
}

func (p *Beep) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Beep) Events() <-chan Event {
	return p.events
}

func (p *Beep) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeStreamLocked()
	p.uri = ""
	p.closeOnce.Do(func() { close(p.closed) })
	speaker.Close()
	return nil
}

// openLocked decodes p.uri and queues it paused at position 0.
func (p *Beep) openLocked() error {
	path := pathFromURI(p.uri)
	streamer, format, err := tags.OpenStream(path)
	if err != nil {
		return err
	}
	p.streamer = streamer
	p.format = format
	p.queueLocked()
	p.state = Paused

	uri := p.uri
	gen := p.gen.Load()
	p.emit(Event{Kind: DurationChanged, URI: uri})
	go p.readPictures(gen, uri, path)
	return nil
}

// queueLocked builds the output chain for the open streamer and hands it to
// the speaker in the paused state.
func (p *Beep) queueLocked() {
	var s beep.Streamer = p.streamer
	if p.format.SampleRate != p.sampleRate {
		s = beep.Resample(4, p.format.SampleRate, p.sampleRate, s)
	}

	p.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.applyVolumeLocked()

	gen := p.gen.Add(1)
	p.drained.Store(false)
	uri := p.uri
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		if p.gen.Load() != gen {
			return
		}
		p.drained.Store(true)
		go p.deliver(gen, Event{Kind: EndOfStream, URI: uri})
	})))
}

// rewindLocked seeks the open streamer, re-queueing it if it already drained.
func (p *Beep) rewindLocked(position time.Duration) error {
	n := p.format.SampleRate.N(position)
	n = max(0, min(n, p.streamer.Len()-1))

	wasPaused := true
	speaker.Lock()
	err := p.streamer.Seek(n)
	if p.ctrl != nil {
		wasPaused = p.ctrl.Paused
	}
	speaker.Unlock()
	if err != nil {
		return err
	}

	if p.drained.Load() {
		speaker.Clear()
		p.queueLocked()
		if !wasPaused {
			speaker.Lock()
			p.ctrl.Paused = false
			speaker.Unlock()
		}
	}
	return nil
}

func (p *Beep) closeStreamLocked() {
	p.gen.Add(1)
	speaker.Clear()
	if p.streamer != nil {
		p.streamer.Close()
	}
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.drained.Store(false)
	p.state = Null
}

// applyVolumeLocked must be called with the speaker lock held or before the
// chain is queued.
func (p *Beep) applyVolumeLocked() {
	p.volume.Volume = levelToVolume(p.level)
	p.volume.Silent = p.level == 0
}

func (p *Beep) readPictures(gen uint64, uri, path string) {
	pictures, err := tags.ReadPictures(path)
	if err != nil || len(pictures) == 0 || p.gen.Load() != gen {
		return
	}
	p.emit(Event{Kind: TagFound, URI: uri, Pictures: pictures})
}

// deliver blocks until ev is queued, the stream it belongs to is replaced,
// or the engine is closed. End-of-stream goes through here so it is never
// dropped; it runs off the speaker goroutine, which holds the speaker lock.
func (p *Beep) deliver(gen uint64, ev Event) {
	for {
		if p.gen.Load() != gen {
			return
		}
		select {
		case p.events <- ev:
			return
		case <-p.closed:
			return
		case <-time.After(deliverRetry):
		}
	}
}

// emit delivers an event without blocking; a full buffer drops it.
func (p *Beep) emit(e Event) {
	select {
	case p.events <- e:
	default:
	}
}

// levelToVolume converts a 0-100 level to beep's base-2 Volume value.
// 100 -> 0, 50 -> -1, 25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level int) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 100 {
		return 0
	}
	return math.Log2(float64(level) / 100)
}

// pathFromURI maps a file:// URI to a local path. Plain paths pass through.
func pathFromURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
