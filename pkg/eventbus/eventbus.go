// Package eventbus defines the contract for publishing domain events
// emitted by the settlement and transfer engines.
package eventbus

import (
	"context"

	"github.com/amberbank/bankcore/pkg/domain"
)

// HandlerFunc consumes a domain event.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// Bus dispatches domain events to registered handlers.
type Bus interface {
	// Emit dispatches the event to all handlers registered for its type.
	Emit(ctx context.Context, event domain.Event) error
	// Register subscribes a handler to an event type.
	Register(eventType string, handler HandlerFunc)
}
