package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatBusiness(t *testing.T) {
	hub := NewHub()

	chA, cleanupA := hub.Subscribe("biz-a")
	defer cleanupA()
	chB, cleanupB := hub.Subscribe("biz-b")
	defer cleanupB()

	hub.Publish("biz-a", Event{Type: "attendance.clock_in", Data: map[string]string{"staff_id": "s1"}})

	select {
	case ev := <-chA:
		assert.Equal(t, "attendance.clock_in", ev.Type)
		assert.Equal(t, "biz-a", ev.BusinessID)
		assert.False(t, ev.OccurredAt.IsZero())
	default:
		t.Fatal("expected event for biz-a")
	}

	select {
	case ev := <-chB:
		t.Fatalf("unexpected event for biz-b: %+v", ev)
	default:
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("biz")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("biz", Event{Type: "tick"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("biz")
	_, cleanup2 := hub.Subscribe("biz")
	require.Equal(t, 2, hub.SubscriberCount("biz"))

	cleanup()
	cleanup()
	assert.Equal(t, 1, hub.SubscriberCount("biz"))

	_, open := <-ch
	assert.False(t, open)

	cleanup2()
	assert.Equal(t, 0, hub.TotalSubscribers())
}
