package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pitchmetrics/internal/platform/logging"
)

func main() {
	csvPath := flag.String("csv", "", "path to the match event CSV export")
	outcomeColumn := flag.String("outcome-column", "", "override for the pass outcome column name")
	timeout := flag.Duration("timeout", 5*time.Minute, "import deadline")
	flag.Parse()

	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL")))
	defer func() { _ = logger.Sync() }()

	if strings.TrimSpace(*csvPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -csv <events.csv> [-outcome-column name]")
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		logger.Error("DB_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *csvPath, *outcomeColumn, dbURL, logger); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath, outcomeColumn, dbURL string, logger *logging.Logger) error {
	source := csvfile.New(csvPath, csvfile.Options{OutcomeColumn: outcomeColumn}, logger)
	rows, err := source.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no events found in %s", csvPath)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", normalizeDBURL(dbURL))
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := postgres.NewEventRepository(db)
	if err := repo.InsertEvents(ctx, rows); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	logger.InfoContext(ctx, "events imported", "path", csvPath, "rows", len(rows))
	return nil
}

func normalizeDBURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
