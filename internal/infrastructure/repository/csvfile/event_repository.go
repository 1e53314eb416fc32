// Package csvfile reads one flattened match-event export into memory. The
// export is produced by the upstream collection pipeline; headers vary a
// little between vintages, so every field resolves against a preference
// list of candidate column names. Malformed numeric cells become nil values
// rather than zeros, and missing optional columns are tolerated.
package csvfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/platform/id"
	"github.com/riskibarqy/pitchmetrics/internal/platform/logging"
)

// Options adjusts column resolution.
type Options struct {
	// OutcomeColumn overrides the header feeding the pass outcome field.
	// Empty keeps the default candidates.
	OutcomeColumn string
}

// Repository lazily loads the CSV on first read and serves the parsed rows
// from memory afterwards.
type Repository struct {
	path   string
	opts   Options
	logger *logging.Logger
	ids    id.Generator

	once    sync.Once
	rows    []event.Event
	loadErr error
}

func New(path string, opts Options, logger *logging.Logger) *Repository {
	return &Repository{
		path:   path,
		opts:   opts,
		logger: logger,
		ids:    id.NewRandomGenerator(),
	}
}

func (r *Repository) ListEvents(ctx context.Context) ([]event.Event, error) {
	r.once.Do(func() {
		r.rows, r.loadErr = r.load(ctx)
	})
	if r.loadErr != nil {
		return nil, r.loadErr
	}

	out := make([]event.Event, 0, len(r.rows))
	out = append(out, r.rows...)

	return out, nil
}

func (r *Repository) load(ctx context.Context) ([]event.Event, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open events csv %q", r.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read csv header %q", r.path)
	}

	cols := r.resolveColumns(header)

	var rows []event.Event
	var short, badCells int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv row %d", len(rows)+2)
		}
		if len(record) < len(header) {
			short++
			continue
		}
		rows = append(rows, r.parseRow(record, cols, &badCells))
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "events csv loaded",
			"path", r.path,
			"rows", len(rows),
			"short_rows_skipped", short,
			"malformed_cells", badCells,
		)
	}

	return rows, nil
}

// columns maps each event field to its resolved header index, -1 when no
// candidate matched.
type columns struct {
	id, index                          int
	matchID, matchName                 int
	team, player                       int
	period, minute, second             int
	eventType, playPattern             int
	underPressure                      int
	x, y                               int
	passEndX, passEndY                 int
	passOutcome, passLength, passAngle int
	passHeight, passRecipient          int
	passType, passTechnique            int
	passThroughBall, passGoalAssist    int
	passCross, passSwitch              int
	shotXG, shotOutcome                int
	shotEndX, shotEndY, shotEndZ       int
	badBehaviourCard, foulCard         int
	subReplacement, subOutcome         int
}

func (r *Repository) resolveColumns(header []string) columns {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, taken := index[key]; !taken {
			index[key] = i
		}
	}

	pick := func(candidates ...string) int {
		for _, c := range candidates {
			if i, ok := index[c]; ok {
				return i
			}
		}
		return -1
	}

	outcome := pick("pass_outcome", "pass_outcome_name")
	if r.opts.OutcomeColumn != "" {
		outcome = pick(strings.ToLower(strings.TrimSpace(r.opts.OutcomeColumn)))
	}

	return columns{
		id:               pick("id", "event_id"),
		index:            pick("index", "event_index"),
		matchID:          pick("match_id"),
		matchName:        pick("match_name", "match"),
		team:             pick("team", "team_name", "possession_team"),
		player:           pick("player", "player_name"),
		period:           pick("period"),
		minute:           pick("minute"),
		second:           pick("second"),
		eventType:        pick("type", "event_type", "type_name"),
		playPattern:      pick("play_pattern"),
		underPressure:    pick("under_pressure"),
		x:                pick("location_x", "x"),
		y:                pick("location_y", "y"),
		passEndX:         pick("pass_end_location_x", "pass_end_x"),
		passEndY:         pick("pass_end_location_y", "pass_end_y"),
		passOutcome:      outcome,
		passLength:       pick("pass_length"),
		passAngle:        pick("pass_angle"),
		passHeight:       pick("pass_height"),
		passRecipient:    pick("pass_recipient"),
		passType:         pick("pass_type"),
		passTechnique:    pick("pass_technique"),
		passThroughBall:  pick("pass_through_ball"),
		passGoalAssist:   pick("pass_goal_assist"),
		passCross:        pick("pass_cross"),
		passSwitch:       pick("pass_switch"),
		shotXG:           pick("shot_statsbomb_xg", "shot_xg"),
		shotOutcome:      pick("shot_outcome"),
		shotEndX:         pick("shot_end_location_x"),
		shotEndY:         pick("shot_end_location_y"),
		shotEndZ:         pick("shot_end_location_z"),
		badBehaviourCard: pick("bad_behaviour_card"),
		foulCard:         pick("foul_committed_card"),
		subReplacement:   pick("substitution_replacement"),
		subOutcome:       pick("substitution_outcome"),
	}
}

func (r *Repository) parseRow(record []string, cols columns, badCells *int) event.Event {
	cell := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	optStr := func(i int) *string {
		v := cell(i)
		if v == "" {
			return nil
		}
		return &v
	}
	optFloat := func(i int) *float64 {
		v := cell(i)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*badCells++
			return nil
		}
		return &f
	}
	intCell := func(i int) int {
		v := cell(i)
		if v == "" {
			return 0
		}
		// Exports sometimes render whole numbers as floats.
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*badCells++
			return 0
		}
		return int(f)
	}

	e := event.Event{
		ID:        cell(cols.id),
		Index:     intCell(cols.index),
		MatchName: cell(cols.matchName),
		Team:      cell(cols.team),
		Player:    cell(cols.player),
		Period:    intCell(cols.period),
		Minute:    intCell(cols.minute),
		Second:    intCell(cols.second),
		Type:      cell(cols.eventType),

		PlayPattern:   cell(cols.playPattern),
		UnderPressure: event.Flag(cell(cols.underPressure)),

		X: optFloat(cols.x),
		Y: optFloat(cols.y),

		PassEndX:        optFloat(cols.passEndX),
		PassEndY:        optFloat(cols.passEndY),
		PassOutcome:     optStr(cols.passOutcome),
		PassLength:      optFloat(cols.passLength),
		PassAngle:       optFloat(cols.passAngle),
		PassHeight:      optStr(cols.passHeight),
		PassRecipient:   optStr(cols.passRecipient),
		PassType:        optStr(cols.passType),
		PassTechnique:   optStr(cols.passTechnique),
		PassThroughBall: event.Flag(cell(cols.passThroughBall)),
		PassGoalAssist:  event.Flag(cell(cols.passGoalAssist)),
		PassCross:       event.Flag(cell(cols.passCross)),
		PassSwitch:      event.Flag(cell(cols.passSwitch)),

		ShotXG:      optFloat(cols.shotXG),
		ShotOutcome: optStr(cols.shotOutcome),
		ShotEndX:    optFloat(cols.shotEndX),
		ShotEndY:    optFloat(cols.shotEndY),
		ShotEndZ:    optFloat(cols.shotEndZ),

		SubstitutionReplacement: cell(cols.subReplacement),
		SubstitutionOutcome:     cell(cols.subOutcome),
	}

	if v := cell(cols.matchID); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			e.MatchID = parsed
		} else {
			*badCells++
		}
	}

	// Cards live in either disciplinary column depending on how the event
	// was recorded.
	e.CardType = cell(cols.badBehaviourCard)
	if e.CardType == "" {
		e.CardType = cell(cols.foulCard)
	}

	if e.ID == "" {
		if generated, err := r.ids.NewID(); err == nil {
			e.ID = generated
		}
	}

	return e
}
