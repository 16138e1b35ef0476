package ipc

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Listener receives the payload of one event.
type Listener func(payload any)

// Bus is a per-channel publish/subscribe queue.
//
// Delivery is FIFO per channel. The set of listeners is captured when an
// event is published, so a listener added afterwards never sees it; a
// listener removed before delivery is skipped. Publishing from inside a
// listener enqueues instead of recursing.
type Bus struct {
	mu       sync.Mutex
	channels map[string]*channelQueue
	log      logrus.FieldLogger
}

type channelQueue struct {
	listeners []*subscription
	pending   []delivery
	draining  bool
}

type subscription struct {
	fn     Listener
	active atomic.Bool
}

type delivery struct {
	payload any
	targets []*subscription
}

// NewBus creates an empty bus.
func NewBus(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		channels: make(map[string]*channelQueue),
		log:      log,
	}
}

// Subscribe adds a listener to a channel and returns a func that removes it.
func (b *Bus) Subscribe(channel string, fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	b.mu.Lock()
	q := b.queueLocked(channel)
	q.listeners = append(q.listeners, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			b.mu.Lock()
			defer b.mu.Unlock()
			q := b.queueLocked(channel)
			for i, s := range q.listeners {
				if s == sub {
					q.listeners = append(q.listeners[:i:i], q.listeners[i+1:]...)
					break
				}
			}
		})
	}
}

// ListenerCount returns the number of listeners currently attached to a channel.
func (b *Bus) ListenerCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if q, ok := b.channels[channel]; ok {
		return len(q.listeners)
	}
	return 0
}

// Publish queues an event for every listener currently subscribed to channel.
// The goroutine that finds the queue idle drains it; others return at once.
func (b *Bus) Publish(channel string, payload any) {
	b.mu.Lock()
	q := b.queueLocked(channel)
	targets := make([]*subscription, len(q.listeners))
	copy(targets, q.listeners)
	q.pending = append(q.pending, delivery{payload: payload, targets: targets})
	if q.draining {
		b.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending[0] = delivery{}
		q.pending = q.pending[1:]
		b.mu.Unlock()
		for _, sub := range next.targets {
			if sub.active.Load() {
				b.deliver(channel, sub, next.payload)
			}
		}
		b.mu.Lock()
	}
	q.draining = false
	b.mu.Unlock()
}

func (b *Bus) deliver(channel string, sub *subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithField("channel", channel).Errorf("event listener panicked: %v", r)
		}
	}()
	sub.fn(payload)
}

func (b *Bus) queueLocked(channel string) *channelQueue {
	q, ok := b.channels[channel]
	if !ok {
		q = &channelQueue{}
		b.channels[channel] = q
	}
	return q
}
