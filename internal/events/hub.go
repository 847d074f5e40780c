// Package events routes gateway events to the match queues that registered for them.
// Reaction streams are keyed by message ID and voice streams by guild ID, so a queue
// only ever sees events for the notification or community it is watching.
package events

import (
	"sync"

	"github.com/KirkDiggler/pickup/internal/platform"
)

const defaultBuffer = 64

// Config for the hub
type Config struct {
	// Buffer is the per-subscription channel capacity
	Buffer int
}

// Hub fans gateway events out to explicit subscribers
type Hub struct {
	reactions *topic[platform.ReactionEvent]
	voice     *topic[platform.VoiceEvent]
}

// New creates an empty hub
func New(cfg *Config) *Hub {
	buffer := defaultBuffer
	if cfg != nil && cfg.Buffer > 0 {
		buffer = cfg.Buffer
	}

	return &Hub{
		reactions: newTopic[platform.ReactionEvent](buffer),
		voice:     newTopic[platform.VoiceEvent](buffer),
	}
}

// SubscribeReactions streams reactions added to one message until the returned func is called
func (h *Hub) SubscribeReactions(messageID string) (<-chan platform.ReactionEvent, func()) {
	return h.reactions.subscribe(messageID)
}

// PublishReaction delivers a reaction to the subscribers of its message and returns how many received it
func (h *Hub) PublishReaction(ev platform.ReactionEvent) int {
	return h.reactions.publish(ev.MessageID, ev)
}

// SubscribeVoice streams voice transitions in one guild until the returned func is called
func (h *Hub) SubscribeVoice(guildID string) (<-chan platform.VoiceEvent, func()) {
	return h.voice.subscribe(guildID)
}

// PublishVoice delivers a voice transition to the subscribers of its guild and returns how many received it
func (h *Hub) PublishVoice(ev platform.VoiceEvent) int {
	return h.voice.publish(ev.GuildID, ev)
}

type subscription[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
}

type topic[T any] struct {
	mu     sync.RWMutex
	next   uint64
	buffer int
	subs   map[string]map[uint64]*subscription[T]
}

func newTopic[T any](buffer int) *topic[T] {
	return &topic[T]{
		buffer: buffer,
		subs:   make(map[string]map[uint64]*subscription[T]),
	}
}

func (t *topic[T]) subscribe(key string) (<-chan T, func()) {
	sub := &subscription[T]{
		ch:   make(chan T, t.buffer),
		done: make(chan struct{}),
	}

	t.mu.Lock()
	id := t.next
	t.next++
	if t.subs[key] == nil {
		t.subs[key] = make(map[uint64]*subscription[T])
	}
	t.subs[key][id] = sub
	t.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			t.mu.Lock()
			delete(t.subs[key], id)
			if len(t.subs[key]) == 0 {
				delete(t.subs, key)
			}
			t.mu.Unlock()
			close(sub.done)
		})
	}

	return sub.ch, unsubscribe
}

// publish blocks while a subscriber's buffer is full; an unsubscribed reader releases it.
// The data channel is never closed so a racing publish cannot panic.
func (t *topic[T]) publish(key string, ev T) int {
	t.mu.RLock()
	targets := make([]*subscription[T], 0, len(t.subs[key]))
	for _, sub := range t.subs[key] {
		targets = append(targets, sub)
	}
	t.mu.RUnlock()

	delivered := 0
	for _, sub := range targets {
		select {
		case sub.ch <- ev:
			delivered++
		case <-sub.done:
		}
	}
	return delivered
}
