package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

// EventRepository serves a fixed event log from memory. It backs local
// development and tests when no CSV export or database is configured.
type EventRepository struct {
	mu   sync.RWMutex
	rows []event.Event
}

func NewEventRepository(rows []event.Event) *EventRepository {
	return &EventRepository{rows: append([]event.Event(nil), rows...)}
}

func (r *EventRepository) ListEvents(_ context.Context) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.rows))
	out = append(out, r.rows...)

	return out, nil
}

// ReplaceEvents swaps the stored log, keeping row order.
func (r *EventRepository) ReplaceEvents(_ context.Context, rows []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append([]event.Event(nil), rows...)

	return nil
}
