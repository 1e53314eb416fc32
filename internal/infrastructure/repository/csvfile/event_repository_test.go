package csvfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestListEventsParsesFlattenedExport(t *testing.T) {
	path := writeCSV(t, ""+
		"id,match_id,team,player,period,minute,second,type,location_x,location_y,"+
		"pass_end_location_x,pass_end_location_y,pass_outcome,pass_length,pass_through_ball,under_pressure\n"+
		"e1,3788741,Alpha,Ana,1,4,30,Pass,50.2,40,98.5,44.1,,25.3,True,\n"+
		"e2,3788741,Alpha,Ana,2,12,0,Pass,55,41,60,20,Incomplete,,,true\n")

	repo := New(path, Options{}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.ID != "e1" || first.MatchID != 3788741 || first.Team != "Alpha" {
		t.Fatalf("unexpected identity fields: %+v", first)
	}
	if first.X == nil || *first.X != 50.2 {
		t.Fatalf("X = %v, want 50.2", first.X)
	}
	if first.PassOutcome != nil {
		t.Fatalf("empty outcome cell should be nil, got %q", *first.PassOutcome)
	}
	if !first.PassThroughBall.True() {
		t.Fatal("through ball flag should be truthy")
	}

	second := rows[1]
	if second.PassOutcome == nil || *second.PassOutcome != "Incomplete" {
		t.Fatalf("outcome = %v, want Incomplete", second.PassOutcome)
	}
	if second.PassLength != nil {
		t.Fatalf("empty length cell should be nil, got %v", *second.PassLength)
	}
	if !second.UnderPressure.True() {
		t.Fatal("under pressure flag should be truthy")
	}
	if second.AbsoluteMinute() != 57 {
		t.Fatalf("absolute minute = %v, want 57", second.AbsoluteMinute())
	}
}

func TestListEventsMalformedNumericBecomesNil(t *testing.T) {
	path := writeCSV(t, ""+
		"id,team,player,type,location_x,pass_length\n"+
		"e1,Alpha,Ana,Pass,not-a-number,abc\n")

	repo := New(path, Options{}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if rows[0].X != nil || rows[0].PassLength != nil {
		t.Fatalf("malformed cells must map to nil, got X=%v length=%v", rows[0].X, rows[0].PassLength)
	}
}

func TestListEventsMissingOptionalColumns(t *testing.T) {
	path := writeCSV(t, ""+
		"team,player,type\n"+
		"Alpha,Ana,Pass\n")

	repo := New(path, Options{}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	row := rows[0]
	if row.X != nil || row.PassOutcome != nil || row.PassType != nil {
		t.Fatalf("absent columns must stay nil: %+v", row)
	}
	if row.ID == "" {
		t.Fatal("rows without an id column get a generated id")
	}
}

func TestListEventsAlternateHeaders(t *testing.T) {
	path := writeCSV(t, ""+
		"event_id,team_name,player_name,event_type,x,y,pass_end_x,pass_end_y\n"+
		"e9,Alpha,Ana,Pass,10,20,30,40\n")

	repo := New(path, Options{}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	row := rows[0]
	if row.ID != "e9" || row.Team != "Alpha" || row.Player != "Ana" || row.Type != "Pass" {
		t.Fatalf("alternate headers not resolved: %+v", row)
	}
	if row.PassEndX == nil || *row.PassEndX != 30 {
		t.Fatalf("pass_end_x = %v, want 30", row.PassEndX)
	}
}

func TestListEventsOutcomeColumnOverride(t *testing.T) {
	path := writeCSV(t, ""+
		"team,player,type,pass_outcome,result\n"+
		"Alpha,Ana,Pass,Incomplete,\n")

	repo := New(path, Options{OutcomeColumn: "result"}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if rows[0].PassOutcome != nil {
		t.Fatalf("override should read the empty result column, got %v", *rows[0].PassOutcome)
	}
}

func TestListEventsShortRowsSkipped(t *testing.T) {
	path := writeCSV(t, ""+
		"team,player,type,minute\n"+
		"Alpha,Ana,Pass,3\n"+
		"Alpha\n")

	repo := New(path, Options{}, nil)
	rows, err := repo.ListEvents(t.Context())
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after skipping the short row", len(rows))
	}
}

func TestListEventsMissingFile(t *testing.T) {
	repo := New(filepath.Join(t.TempDir(), "absent.csv"), Options{}, nil)
	if _, err := repo.ListEvents(t.Context()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
