package events

import (
	"context"
	"log/slog"
	"sync"
)

// Topic names an event kind on the bus.
type Topic string

const (
	TopicUserRegistered    Topic = "user.registered"
	TopicResetTokenCreated Topic = "user.reset-token-created"
	TopicOrderConfirmed    Topic = "order.confirmed"
)

// HandlerFunc receives the event payload published under a topic. Handlers
// must not block: anything slow belongs on the task queue, not the bus.
type HandlerFunc func(ctx context.Context, payload any)

// Bus is a small in-process fan-out for domain events. Publish runs every
// subscriber synchronously in registration order; a panicking subscriber is
// recovered and logged so it cannot fail the publishing request.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]HandlerFunc
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]HandlerFunc)}
}

func (b *Bus) Subscribe(topic Topic, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) {
	b.mu.RLock()
	handlers := b.subs[topic]
	b.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("event subscriber panicked", "topic", string(topic), "panic", r)
				}
			}()
			fn(ctx, payload)
		}()
	}
}
