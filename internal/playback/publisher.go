package playback

import (
	"strings"
	"sync"
)

const eventBufferSize = 16

// Topic names a published event stream.
type Topic string

const (
	TopicMetadata Topic = "metadata"
	TopicPlaylist Topic = "playlist"
)

// ParseTopic resolves a topic name, ignoring case.
func ParseTopic(name string) (Topic, bool) {
	switch {
	case strings.EqualFold(name, string(TopicMetadata)):
		return TopicMetadata, true
	case strings.EqualFold(name, string(TopicPlaylist)):
		return TopicPlaylist, true
	}
	return "", false
}

// Message is one published event. Payload is one of PlaylistEvent,
// MetadataEvent, TagEvent or RemoteEvent.
type Message struct {
	Topic   Topic
	Payload any
}

// Subscription receives the events of a single topic.
type Subscription struct {
	Topic  Topic
	Events <-chan Message
	Done   <-chan struct{}

	eventsCh chan Message
	doneCh   chan struct{}
	once     sync.Once
}

func newSubscription(topic Topic) *Subscription {
	s := &Subscription{
		Topic:    topic,
		eventsCh: make(chan Message, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Events = s.eventsCh
	s.Done = s.doneCh
	return s
}

// send delivers a message without blocking. A full buffer drops it.
func (s *Subscription) send(m Message) {
	select {
	case s.eventsCh <- m:
	default:
	}
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.doneCh) })
}

// Publisher fans events out to topic subscribers.
type Publisher struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	closed bool
}

// NewPublisher creates a publisher with no subscribers.
func NewPublisher() *Publisher {
	return &Publisher{subs: make(map[Topic][]*Subscription)}
}

// Subscribe registers a new listener on topic. After Close the returned
// subscription is already done.
func (p *Publisher) Subscribe(topic Topic) *Subscription {
	sub := newSubscription(topic)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		sub.close()
		return sub
	}
	p.subs[topic] = append(p.subs[topic], sub)
	return sub
}

// Unsubscribe removes sub and closes its Done channel. Returns false if sub
// was not registered.
func (p *Publisher) Unsubscribe(sub *Subscription) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.subs[sub.Topic]
	for i, s := range subs {
		if s == sub {
			p.subs[sub.Topic] = append(subs[:i:i], subs[i+1:]...)
			sub.close()
			return true
		}
	}
	return false
}

// Publish sends payload to every subscriber of topic.
func (p *Publisher) Publish(topic Topic, payload any) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m := Message{Topic: topic, Payload: payload}
	for _, sub := range p.subs[topic] {
		sub.send(m)
	}
}

// Subscribers returns the number of listeners on topic.
func (p *Publisher) Subscribers(topic Topic) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs[topic])
}

// Close closes every subscription.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for topic, subs := range p.subs {
		for _, sub := range subs {
			sub.close()
		}
		delete(p.subs, topic)
	}
}
