package event

import "context"

// Repository loads the full flattened event log. Implementations cover the
// combined CSV produced by the flattening pipeline, a Postgres events table,
// and an in-memory seed for development.
type Repository interface {
	ListEvents(ctx context.Context) ([]Event, error)
}
