package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock_LoadLandsPaused(t *testing.T) {
	m := NewMock()
	m.SetPosition(5 * time.Second)

	assert.NoError(t, m.Load("file:///a.mp3"))

	assert.Equal(t, Paused, m.State())
	pos, ok := m.Position()
	assert.True(t, ok)
	assert.Zero(t, pos)
}

func TestMock_PlayWithoutMedia(t *testing.T) {
	m := NewMock()

	assert.ErrorIs(t, m.Play(), ErrNotLoaded)
	assert.Equal(t, Null, m.State())
}

func TestMock_LoadError(t *testing.T) {
	m := NewMock()
	m.SetLoadError(errors.New("boom"))

	assert.Error(t, m.Load("file:///a.mp3"))
	assert.Equal(t, []string{"file:///a.mp3"}, m.LoadCalls())
	assert.Empty(t, m.URI())
}

func TestMock_DurationQuery(t *testing.T) {
	m := NewMock()
	_, ok := m.Duration()
	assert.False(t, ok)

	m.SetDuration(3 * time.Minute)
	d, ok := m.Duration()
	assert.True(t, ok)
	assert.Equal(t, 3*time.Minute, d)

	m.ClearDuration()
	_, ok = m.Duration()
	assert.False(t, ok)
}

func TestMock_Events(t *testing.T) {
	m := NewMock()
	_ = m.Load("file:///a.mp3")

	m.SimulateEndOfStream()

	select {
	case e := <-m.Events():
		assert.Equal(t, EndOfStream, e.Kind)
		assert.Equal(t, "file:///a.mp3", e.URI)
	default:
		t.Fatal("expected an event")
	}
}
