package realtime

import (
	"testing"
	"time"
)

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("order-1", 4)
	b := h.Subscribe("order-1", 4)
	other := h.Subscribe("order-2", 4)
	defer a.Close()
	defer b.Close()
	defer other.Close()

	if n := h.Publish("order-1", "shipped"); n != 2 {
		t.Fatalf("delivered=%d, want 2", n)
	}
	for _, sub := range []*Subscriber{a, b} {
		select {
		case msg := <-sub.C:
			if msg != "shipped" {
				t.Fatalf("msg=%v", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
	select {
	case msg := <-other.C:
		t.Fatalf("order-2 subscriber received event for order-1: %v", msg)
	default:
	}
}

func TestLateSubscriberMissesEvent(t *testing.T) {
	h := NewHub()
	h.Publish("order-1", "processing")

	late := h.Subscribe("order-1", 4)
	defer late.Close()
	select {
	case msg := <-late.C:
		t.Fatalf("late subscriber got a replayed event: %v", msg)
	default:
	}
}

func TestFullBufferIsSkippedNotBlocked(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("order-1", 1)
	defer s.Close()

	if n := h.Publish("order-1", "a"); n != 1 {
		t.Fatalf("first publish delivered=%d", n)
	}
	done := make(chan int)
	go func() { done <- h.Publish("order-1", "b") }()
	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("publish to full buffer delivered=%d, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}
}

func TestCloseLeavesTopic(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("order-1", 4)
	if h.Subscribers("order-1") != 1 {
		t.Fatal("subscribe did not register")
	}
	s.Close()
	s.Close() // idempotent
	if h.Subscribers("order-1") != 0 {
		t.Fatal("close did not leave the topic")
	}
	if h.Publish("order-1", "x") != 0 {
		t.Fatal("closed subscriber still receives events")
	}
	if _, ok := <-s.C; ok {
		t.Fatal("channel not closed")
	}
}
