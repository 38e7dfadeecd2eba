package sse

import (
	"sync"
	"time"
)

const subscriberBuffer = 10

// Event represents an SSE event to be sent to subscribers of a business
type Event struct {
	BusinessID string      `json:"-"`
	Type       string      `json:"type"`
	Data       interface{} `json:"data"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Publisher is the narrow interface services depend on.
type Publisher interface {
	Publish(businessID string, event Event)
}

// Hub manages SSE subscribers and event broadcasting, keyed by business
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a business and returns the event channel and cleanup function
func (h *Hub) Subscribe(businessID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if h.subscribers[businessID] == nil {
		h.subscribers[businessID] = make(map[chan Event]struct{})
	}
	h.subscribers[businessID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[businessID], ch)
			close(ch)
			if len(h.subscribers[businessID]) == 0 {
				delete(h.subscribers, businessID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a business. Slow subscribers miss events rather than block.
func (h *Hub) Publish(businessID string, event Event) {
	event.BusinessID = businessID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[businessID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a business
func (h *Hub) SubscriberCount(businessID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[businessID])
}

// TotalSubscribers returns the total number of active subscribers across all businesses
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
