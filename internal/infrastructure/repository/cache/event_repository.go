package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	basecache "github.com/riskibarqy/pitchmetrics/internal/platform/cache"
)

// EventRepository caches full event listings in front of a slower source
// such as Postgres or a CSV file.
type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, ttl time.Duration) *EventRepository {
	return &EventRepository{next: next, cache: basecache.NewStore(ttl)}
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]event.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, "event:list", func(ctx context.Context) (any, error) {
		rows, err := r.next.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]event.Event)
	return append([]event.Event(nil), rows...), nil
}

// Invalidate drops the cached listing so the next read hits the source.
func (r *EventRepository) Invalidate(ctx context.Context) {
	r.cache.Delete(ctx, "event:list")
}
