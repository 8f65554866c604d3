// Package eventbus provides the in-memory event bus implementation used
// to fan out settlement and transfer outcomes inside the process.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amberbank/bankcore/pkg/domain"
	"github.com/amberbank/bankcore/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of eventbus.Bus.
// Handlers run synchronously on the emitting goroutine; handler errors
// are logged and do not stop dispatch.
type MemoryEventBus struct {
	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	logger   *slog.Logger

	published []domain.Event // retained for tests
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers:  make(map[string][]eventbus.HandlerFunc),
		logger:    logger.With("bus", "memory"),
		published: make([]domain.Event, 0),
	}
}

// Register subscribes a handler to an event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all handlers registered for its type.
func (b *MemoryEventBus) Emit(ctx context.Context, event domain.Event) error {
	eventType := event.Type()
	b.mu.RLock()
	handlers := b.handlers[eventType]
	b.mu.RUnlock()

	b.mu.Lock()
	b.published = append(b.published, event)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed", "event", eventType, "error", err)
		}
	}
	return nil
}

// Published returns the events emitted so far. Useful in tests.
func (b *MemoryEventBus) Published() []domain.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.published
}

// ClearPublished resets the retained event list. Useful in tests.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = make([]domain.Event, 0)
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
