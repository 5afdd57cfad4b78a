package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		in     string
		want   Topic
		wantOK bool
	}{
		{"metadata", TopicMetadata, true},
		{"Playlist", TopicPlaylist, true},
		{"METADATA", TopicMetadata, true},
		{"status", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTopic(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPublisher_PublishByTopic(t *testing.T) {
	p := NewPublisher()
	meta := p.Subscribe(TopicMetadata)
	list := p.Subscribe(TopicPlaylist)

	p.Publish(TopicMetadata, RemoteEvent{Connected: true})

	assert.Len(t, drain(meta), 1)
	assert.Empty(t, drain(list))
}

func TestPublisher_FullBufferDrops(t *testing.T) {
	p := NewPublisher()
	sub := p.Subscribe(TopicMetadata)

	for range eventBufferSize + 5 {
		p.Publish(TopicMetadata, MetadataEvent{})
	}

	assert.Len(t, drain(sub), eventBufferSize)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	p := NewPublisher()
	a := p.Subscribe(TopicPlaylist)
	b := p.Subscribe(TopicPlaylist)

	assert.True(t, p.Unsubscribe(a))
	assert.False(t, p.Unsubscribe(a))
	assert.Equal(t, 1, p.Subscribers(TopicPlaylist))

	p.Publish(TopicPlaylist, PlaylistEvent{})
	assert.Empty(t, drain(a))
	assert.Len(t, drain(b), 1)

	select {
	case <-a.Done:
	default:
		t.Error("unsubscribed Done should be closed")
	}
}

func TestPublisher_Close(t *testing.T) {
	p := NewPublisher()
	sub := p.Subscribe(TopicMetadata)

	p.Close()
	p.Close()

	<-sub.Done
	late := p.Subscribe(TopicMetadata)
	<-late.Done
	assert.Zero(t, p.Subscribers(TopicMetadata))
}
