package events

import (
	"context"
	"sync"
)

var _ Broker = (*LocalBroker)(nil)

// LocalBroker delivers events synchronously to in-process subscribers.
type LocalBroker struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{handlers: make(map[int]Handler)}
}

func (b *LocalBroker) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	return nil
}

func (b *LocalBroker) Subscribe(h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[id] = h

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}, nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[int]Handler)
	return nil
}
