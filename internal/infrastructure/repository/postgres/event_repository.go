package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	qb "github.com/riskibarqy/pitchmetrics/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListEvents returns the whole event log in stable chronological order so
// downstream aggregation stays deterministic across reads.
func (r *EventRepository) ListEvents(ctx context.Context) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		OrderBy("match_id", "period", "minute", "second", "event_index", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

// InsertEvents writes rows in chunks, ignoring ids already present. Used by
// the CSV import command.
func (r *EventRepository) InsertEvents(ctx context.Context, rows []event.Event) error {
	const chunkSize = 500

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.insertChunk(ctx, rows[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (r *EventRepository) insertChunk(ctx context.Context, rows []event.Event) error {
	builder := qb.InsertInto("events").Columns(
		"id", "event_index", "match_id", "match_name", "team", "player",
		"period", "minute", "second", "event_type", "play_pattern",
		"x", "y",
		"pass_end_x", "pass_end_y", "pass_outcome", "pass_length", "pass_angle",
		"pass_height", "pass_recipient", "pass_type", "pass_technique",
		"shot_xg", "shot_outcome", "shot_end_x", "shot_end_y", "shot_end_z",
		"card_type", "substitution_replacement", "substitution_outcome",
		"flags",
	)

	for _, e := range rows {
		m, err := eventToModel(e)
		if err != nil {
			return err
		}
		builder.Values(
			m.ID, m.EventIndex, m.MatchID, m.MatchName, m.Team, m.Player,
			m.Period, m.Minute, m.Second, m.EventType, m.PlayPattern,
			m.X, m.Y,
			m.PassEndX, m.PassEndY, m.PassOutcome, m.PassLength, m.PassAngle,
			m.PassHeight, m.PassRecipient, m.PassType, m.PassTechnique,
			m.ShotXG, m.ShotOutcome, m.ShotEndX, m.ShotEndY, m.ShotEndZ,
			m.CardType, m.SubReplacement, m.SubOutcome,
			m.Flags,
		)
	}

	query, args, err := builder.Suffix("ON CONFLICT (id) DO NOTHING").ToSQL()
	if err != nil {
		return fmt.Errorf("build insert events query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	return nil
}
