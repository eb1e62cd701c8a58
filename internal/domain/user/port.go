package user

import "context"

// Store is read-only from the session layer's point of view.
type Store interface {
	FindByIdentifier(ctx context.Context, identifier string) (*Record, error)
	Ping(ctx context.Context) error
}
