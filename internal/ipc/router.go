package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownChannel is returned for a channel with no registered handler.
var ErrUnknownChannel = errors.New("unknown channel")

// Handler answers a request channel.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// MessageHandler consumes a fire-and-forget channel.
type MessageHandler func(ctx context.Context, payload json.RawMessage) error

// Router dispatches UI-initiated traffic to handlers by channel name.
type Router struct {
	mu       sync.RWMutex
	requests map[string]Handler
	messages map[string]MessageHandler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		requests: make(map[string]Handler),
		messages: make(map[string]MessageHandler),
	}
}

// Handle registers a request handler, replacing any previous one.
func (r *Router) Handle(channel string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[channel] = h
}

// On registers a fire-and-forget handler, replacing any previous one.
func (r *Router) On(channel string, h MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[channel] = h
}

// Invoke runs the request handler for channel.
func (r *Router) Invoke(ctx context.Context, channel string, payload json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.requests[channel]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	return h(ctx, payload)
}

// Send runs the fire-and-forget handler for channel. The returned error is for
// logging only; the sender never waits on it.
func (r *Router) Send(ctx context.Context, channel string, payload json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.messages[channel]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	return h(ctx, payload)
}

// Channels returns the registered request and message channel names.
func (r *Router) Channels() (requests, messages []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.requests {
		requests = append(requests, name)
	}
	for name := range r.messages {
		messages = append(messages, name)
	}
	return requests, messages
}

// Decode unmarshals a payload into T. An empty or null payload yields the zero value.
func Decode[T any](payload json.RawMessage) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("invalid payload: %w", err)
	}
	return out, nil
}
