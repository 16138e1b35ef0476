package ipc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversInPublishOrder(t *testing.T) {
	bus := NewBus(nil)

	var got []int
	bus.Subscribe(EventScreenshotResult, func(payload any) {
		got = append(got, payload.(int))
	})

	for i := 0; i < 5; i++ {
		bus.Publish(EventScreenshotResult, i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestBus_LateSubscriberDoesNotReplay(t *testing.T) {
	bus := NewBus(nil)
	bus.Publish(EventFocusInput, "early")

	var got []any
	bus.Subscribe(EventFocusInput, func(payload any) { got = append(got, payload) })
	bus.Publish(EventFocusInput, "late")

	assert.Equal(t, []any{"late"}, got)
}

func TestBus_ChannelsAreIndependent(t *testing.T) {
	bus := NewBus(nil)

	var drag, focus int
	bus.Subscribe(EventDragOffset, func(any) { drag++ })
	bus.Subscribe(EventFocusInput, func(any) { focus++ })

	bus.Publish(EventDragOffset, DragOffset{X: 1, Y: 2})
	bus.Publish(EventDragOffset, DragOffset{X: 3, Y: 4})
	bus.Publish(EventFocusInput, nil)

	assert.Equal(t, 2, drag)
	assert.Equal(t, 1, focus)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)

	var count int
	unsubscribe := bus.Subscribe(EventDragOffset, func(any) { count++ })
	bus.Publish(EventDragOffset, nil)
	unsubscribe()
	unsubscribe()
	bus.Publish(EventDragOffset, nil)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.ListenerCount(EventDragOffset))
}

func TestBus_UnsubscribeDuringDeliverySkipsPendingEvents(t *testing.T) {
	bus := NewBus(nil)

	var second []any
	var unsubscribeSecond func()
	bus.Subscribe(EventScreenshotResult, func(payload any) {
		if payload == "first" {
			// Re-entrant publish is queued behind the current event.
			bus.Publish(EventScreenshotResult, "second")
			unsubscribeSecond()
		}
	})
	unsubscribeSecond = bus.Subscribe(EventScreenshotResult, func(payload any) {
		second = append(second, payload)
	})

	bus.Publish(EventScreenshotResult, "first")

	// The second listener was removed before "second" reached it, and had
	// already been skipped for "first" because removal happened mid-delivery.
	assert.Empty(t, second)
}

func TestBus_ReentrantPublishKeepsFIFO(t *testing.T) {
	bus := NewBus(nil)

	var order []string
	bus.Subscribe(EventAuthSessionUpdated, func(payload any) {
		s := payload.(string)
		order = append(order, s)
		if s == "a" {
			bus.Publish(EventAuthSessionUpdated, "c")
		}
	})

	bus.Publish(EventAuthSessionUpdated, "a")
	bus.Publish(EventAuthSessionUpdated, "b")

	assert.Equal(t, []string{"a", "c", "b"}, order)
}

func TestBus_ListenerPanicIsContained(t *testing.T) {
	bus := NewBus(nil)

	var delivered bool
	bus.Subscribe(EventFocusInput, func(any) { panic("boom") })
	bus.Subscribe(EventFocusInput, func(any) { delivered = true })

	require.NotPanics(t, func() { bus.Publish(EventFocusInput, nil) })
	assert.True(t, delivered)
}

func TestBus_ConcurrentPublishersDeliverEverything(t *testing.T) {
	bus := NewBus(nil)

	var mu sync.Mutex
	seen := make(map[int]bool)
	bus.Subscribe(EventDragOffset, func(payload any) {
		mu.Lock()
		seen[payload.(int)] = true
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bus.Publish(EventDragOffset, n)
		}(i)
	}
	wg.Wait()

	// A publisher that found the queue busy returns before delivery; the
	// draining goroutine finishes before its own Publish returns.
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 50)
}
