// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Engine.
type Mock struct {
	mu          sync.Mutex
	state       State
	uri         string
	position    time.Duration
	duration    time.Duration
	hasDuration bool
	volume      int
	loadErr     error
	playErr     error
	loadCalls   []string
	seekCalls   []time.Duration
	volumeCalls []int
	playCalls   int
	pauseCalls  int
	stopCalls   int
	closed      bool
	events      chan Event
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Null,
		events: make(chan Event, eventBufferSize),
	}
}

func (m *Mock) Load(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, uri)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.uri = uri
	m.position = 0
	m.state = Paused
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.uri == "" {
		return ErrNotLoaded
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.uri != "" {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Null
	m.position = 0
}

func (m *Mock) Seek(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, d)
	if m.uri == "" {
		return ErrNotLoaded
	}
	m.position = d
	return nil
}

func (m *Mock) SetVolume(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumeCalls = append(m.volumeCalls, level)
	m.volume = level
}

func (m *Mock) Position() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, m.uri != ""
}

func (m *Mock) Duration() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration, m.hasDuration
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.state = Null
	return nil
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// SetDuration makes the duration query succeed with d.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
	m.hasDuration = true
}

// ClearDuration makes the duration query fail.
func (m *Mock) ClearDuration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = 0
	m.hasDuration = false
}

func (m *Mock) URI() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uri
}

func (m *Mock) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) VolumeCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.volumeCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Emit queues a pipeline event as if the engine had produced it.
func (m *Mock) Emit(e Event) {
	m.events <- e
}

// SimulateEndOfStream emits an end-of-stream event for the loaded media.
func (m *Mock) SimulateEndOfStream() {
	m.Emit(Event{Kind: EndOfStream, URI: m.URI()})
}

// Verify Mock implements Engine at compile time.
var _ Engine = (*Mock)(nil)
