// Package realtime fans out change events to in-process subscribers.
//
// Delivery is best effort: Publish never blocks, and a subscriber whose
// buffer is full misses the event.
package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/domain"
)

// Event types.
const (
	EventMessageCreated      = "message.created"
	EventConversationUpdated = "conversation.updated"
)

const defaultBuffer = 16

// Event is one change notification.
type Event struct {
	Type         string
	Message      *domain.Message
	Conversation *domain.Conversation
}

// ConversationTopic is the topic carrying events of one conversation.
func ConversationTopic(id uuid.UUID) string {
	return "conversation:" + id.String()
}

type subscriber struct {
	ch chan Event
}

// Hub is a topic-keyed publish/subscribe registry.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	buffer int
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
// A non-positive buffer selects the default.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		topics: make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscription on topic. The returned function removes
// it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.topics[topic]; ok {
				delete(subs, sub)
				if len(subs) == 0 {
					delete(h.topics, topic)
				}
			}
			close(sub.ch)
		})
	}
}

// Publish delivers ev to every current subscriber of topic and returns the
// number of subscribers that received it.
func (h *Hub) Publish(topic string, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
