// Package realtime fans order status events out to currently-connected
// tracking subscribers. Topics are order ids; delivery is at-most-once
// with no persistence, so a subscriber that joins after an event simply
// misses it and must fetch history instead.
package realtime

import "sync"

type Subscriber struct {
	C chan any

	hub   *Hub
	topic string
	once  sync.Once
}

// Close leaves the topic and closes C. Safe to call more than once.
func (s *Subscriber) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*Subscriber]struct{})}
}

// Subscribe joins a topic with a buffered channel of the given size.
func (h *Hub) Subscribe(topic string, buf int) *Subscriber {
	if buf <= 0 {
		buf = 16
	}
	s := &Subscriber{C: make(chan any, buf), hub: h, topic: topic}
	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) remove(s *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.topics[s.topic]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.topics, s.topic)
		}
	}
	h.mu.Unlock()
	close(s.C)
}

// Publish sends msg to every current subscriber of the topic and returns
// the delivery count. A subscriber whose buffer is full is skipped rather
// than blocking the publisher.
func (h *Hub) Publish(topic string, msg any) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for s := range h.topics[topic] {
		select {
		case s.C <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers reports the current subscriber count for a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}
