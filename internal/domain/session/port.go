package session

import "context"

// Publisher delivers an event to its sink. Implementations may block.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) {}
