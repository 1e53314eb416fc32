package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/pitchmetrics/internal/platform/querybuilder"
)

// BootstrapSeed loads the built-in development event log into an empty
// events table. A table with any rows is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM events`); err != nil {
		return fmt.Errorf("count events for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range memory.SeedEvents() {
		model, err := eventToModel(e)
		if err != nil {
			return err
		}
		query, args, err := qb.InsertModel("events", model, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed event %s query: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
