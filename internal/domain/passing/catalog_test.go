package passing

import (
	"math"
	"testing"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/domain/pitch"
)

func str(v string) *string   { return &v }
func num(v float64) *float64 { return &v }

func almost(got, want float64) bool { return math.Abs(got-want) < 1e-9 }

// pass builds one pass row and applies per-test tweaks.
func pass(player, team string, mods ...func(*event.Event)) event.Event {
	e := event.Event{
		MatchID:   1,
		MatchName: "Alpha vs Beta",
		Team:      team,
		Player:    player,
		Period:    1,
		Type:      event.TypePass,
	}
	for _, mod := range mods {
		mod(&e)
	}
	return e
}

func incomplete(e *event.Event) { e.PassOutcome = str("Incomplete") }

func fixedLength() Config { return Config{PitchLength: pitch.DefaultLength} }

func TestPassingPercentageSixOfTen(t *testing.T) {
	rows := make([]event.Event, 0, 10)
	for i := 0; i < 6; i++ {
		rows = append(rows, pass("Ana", "Alpha"))
	}
	for i := 0; i < 4; i++ {
		rows = append(rows, pass("Ana", "Alpha", incomplete))
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	if got := c.PassingPercentage(""); !almost(got, 0.6) {
		t.Fatalf("PassingPercentage = %v, want 0.6", got)
	}
	if got := c.PassesAttempted(""); got != 10 {
		t.Fatalf("PassesAttempted = %d, want 10", got)
	}
	if got := c.PassesCompleted(""); got != 6 {
		t.Fatalf("PassesCompleted = %d, want 6", got)
	}
}

func TestScopeConsistency(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha"),
		pass("Ana", "Alpha", incomplete),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassThroughBall = "true" }),
		pass("Bo", "Beta"),
		pass("Bo", "Beta", incomplete),
	}
	ds := event.NewDataset(rows)
	cfg := fixedLength()

	competition := NewCompetition(ds, cfg)
	team := NewTeam(ds, "Alpha", cfg)
	player := NewPlayer(ds, "Ana", cfg)

	wantPct := player.PassingPercentage("")
	if got := competition.PassingPercentage("Ana"); !almost(got, wantPct) {
		t.Fatalf("competition filtered to Ana = %v, player scope = %v", got, wantPct)
	}
	if got := team.PassingPercentage("Ana"); !almost(got, wantPct) {
		t.Fatalf("team filtered to Ana = %v, player scope = %v", got, wantPct)
	}
	if got, want := competition.PassesAttempted("Ana"), player.PassesAttempted(""); got != want {
		t.Fatalf("attempted: competition %d, player %d", got, want)
	}
	if got, want := competition.ThroughBalls("Ana"), player.ThroughBalls(""); got != want {
		t.Fatalf("through balls: competition %+v, player %+v", got, want)
	}
}

func TestMatchScopeByIDAndName(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha"),
		pass("Ana", "Alpha", func(e *event.Event) {
			e.MatchID = 2
			e.MatchName = "Alpha vs Gamma"
			e.PassOutcome = str("Incomplete")
		}),
	}
	ds := event.NewDataset(rows)

	byID := NewMatch(ds, "1", fixedLength())
	byName := NewMatch(ds, "Alpha vs Beta", fixedLength())
	if byID.PassesAttempted("") != 1 || byName.PassesAttempted("") != 1 {
		t.Fatalf("match scope row counts: id %d, name %d",
			byID.PassesAttempted(""), byName.PassesAttempted(""))
	}
	if got := byID.PassingPercentage(""); !almost(got, byName.PassingPercentage("")) {
		t.Fatalf("id scope %v != name scope %v", got, byName.PassingPercentage(""))
	}
}

func TestDirectionSplitPartitionsDenominator(t *testing.T) {
	vector := func(x, y, endX, endY float64) func(*event.Event) {
		return func(e *event.Event) {
			e.X, e.Y, e.PassEndX, e.PassEndY = num(x), num(y), num(endX), num(endY)
		}
	}
	rows := []event.Event{
		pass("Ana", "Alpha", vector(50, 40, 60, 40)), // forward
		pass("Ana", "Alpha", vector(50, 40, 40, 40)), // backward
		pass("Ana", "Alpha", vector(50, 40, 50, 50)), // sideways
		pass("Ana", "Alpha", vector(50, 40, 50, 40)), // degenerate, excluded
		pass("Ana", "Alpha"),                         // no coordinates, excluded
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	split := c.DirectionSplit("")
	if split.Classified != 3 {
		t.Fatalf("Classified = %d, want 3", split.Classified)
	}
	for name, got := range map[string]float64{
		"forward": split.Forward, "sideways": split.Sideways, "backward": split.Backward,
	} {
		if !almost(got, 1.0/3.0) {
			t.Fatalf("%s share = %v, want 1/3", name, got)
		}
	}
	if sum := split.Forward + split.Sideways + split.Backward; !almost(sum, 1) {
		t.Fatalf("shares sum to %v, want 1", sum)
	}
}

func TestDirectionSplitByThird(t *testing.T) {
	vector := func(x, endX float64) func(*event.Event) {
		return func(e *event.Event) {
			e.X, e.Y, e.PassEndX, e.PassEndY = num(x), num(40), num(endX), num(40)
		}
	}
	rows := []event.Event{
		pass("Ana", "Alpha", vector(90, 100)), // final third, forward
		pass("Ana", "Alpha", vector(90, 85)),  // final third, backward
		pass("Ana", "Alpha", vector(10, 20)),  // defensive third, ignored here
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	split := c.DirectionSplitByThird(pitch.ThirdFinal, "")
	if split.Classified != 2 {
		t.Fatalf("Classified = %d, want 2", split.Classified)
	}
	if !almost(split.Forward, 0.5) || !almost(split.Backward, 0.5) || !almost(split.Sideways, 0) {
		t.Fatalf("final third split = %+v", split)
	}
}

func TestThirdFlows(t *testing.T) {
	vector := func(x, endX float64) func(*event.Event) {
		return func(e *event.Event) {
			e.X, e.Y, e.PassEndX, e.PassEndY = num(x), num(40), num(endX), num(40)
		}
	}
	startOnly := func(x float64) func(*event.Event) {
		return func(e *event.Event) { e.X, e.Y = num(x), num(40) }
	}
	rows := []event.Event{
		pass("Ana", "Alpha", vector(10, 50)),  // defensive -> middle
		pass("Ana", "Alpha", vector(10, 90)),  // defensive -> final
		pass("Ana", "Alpha", vector(50, 100)), // middle -> final
		pass("Ana", "Alpha", vector(90, 95)),  // final -> final
		pass("Ana", "Alpha", startOnly(10)),   // origin only, no flow cell
		pass("Ana", "Alpha"),                  // no coordinates, excluded
	}

	flows := NewCompetition(event.NewDataset(rows), fixedLength()).ThirdFlows("")
	if flows.FromDefensive != 3 || flows.FromMiddle != 1 || flows.FromFinal != 1 {
		t.Fatalf("origin counts = %d/%d/%d, want 3/1/1",
			flows.FromDefensive, flows.FromMiddle, flows.FromFinal)
	}
	if len(flows.Flows) != 9 {
		t.Fatalf("flow matrix has %d cells, want 9", len(flows.Flows))
	}
	if flows.Flows[0].From != "defensive" || flows.Flows[0].To != "defensive" ||
		flows.Flows[8].From != "final" || flows.Flows[8].To != "final" {
		t.Fatalf("flow cells out of order: first=%+v last=%+v", flows.Flows[0], flows.Flows[8])
	}

	want := map[string]int{
		"defensive->middle": 1,
		"defensive->final":  1,
		"middle->final":     1,
		"final->final":      1,
	}
	for _, cell := range flows.Flows {
		if got := want[cell.From+"->"+cell.To]; cell.Count != got {
			t.Fatalf("flow %s->%s = %d, want %d", cell.From, cell.To, cell.Count, got)
		}
	}
}

func TestThroughBallFlagOrTechnique(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*event.Event)
		want bool
	}{
		{"flag set", func(e *event.Event) { e.PassThroughBall = "True" }, true},
		{"flag numeric", func(e *event.Event) { e.PassThroughBall = "1" }, true},
		{"technique exact", func(e *event.Event) { e.PassTechnique = str("Through Ball") }, true},
		{"technique hyphen", func(e *event.Event) { e.PassTechnique = str("driven through-ball") }, true},
		{"technique embedded word", func(e *event.Event) { e.PassTechnique = str("breakthrough ball") }, false},
		{"neither", func(e *event.Event) {}, false},
	}
	for _, tt := range tests {
		rows := []event.Event{pass("Ana", "Alpha", tt.mod)}
		c := NewCompetition(event.NewDataset(rows), fixedLength())
		got := c.ThroughBalls("").Attempted == 1
		if got != tt.want {
			t.Fatalf("%s: through ball = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLongBalls(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha", func(e *event.Event) { e.PassLength = num(35) }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassLength = num(40); e.PassOutcome = str("Incomplete") }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassLength = num(34.9) }),
		pass("Ana", "Alpha"), // no recorded length, never a long ball
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	if got := c.LongBalls(""); got != 1 {
		t.Fatalf("LongBalls = %d, want 1", got)
	}
	if got := c.LongBallPercentage(""); !almost(got, 0.5) {
		t.Fatalf("LongBallPercentage = %v, want 0.5", got)
	}
}

func TestOpenPlayClassification(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha", func(e *event.Event) { e.PassType = str("Corner") }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassType = str("Free Kick") }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassType = str("Recovery") }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PlayPattern = "From Throw In" }),
		pass("Ana", "Alpha", func(e *event.Event) { e.PlayPattern = "Regular Play" }),
		pass("Ana", "Alpha"), // neither column populated counts as open play
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	if got := c.OpenPlayPasses(""); got != 3 {
		t.Fatalf("OpenPlayPasses = %d, want 3", got)
	}
}

func TestBoxMetrics(t *testing.T) {
	end := func(x, y float64) func(*event.Event) {
		return func(e *event.Event) { e.PassEndX, e.PassEndY = num(x), num(y) }
	}
	start := func(x, y float64) func(*event.Event) {
		return func(e *event.Event) { e.X, e.Y = num(x), num(y) }
	}
	rows := []event.Event{
		pass("Ana", "Alpha", start(80, 40), end(102, 18)),                 // boundary inclusive, into box
		pass("Ana", "Alpha", start(80, 40), end(101.9, 40), incomplete),   // just short
		pass("Ana", "Alpha", start(103, 30), end(110, 50)),                // inside box both ends
		pass("Ana", "Alpha", start(80, 40), end(105, 15)),                 // outside box laterally
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	into := c.PassesIntoBox("")
	if into.Attempted != 2 || into.Completed != 2 {
		t.Fatalf("PassesIntoBox = %+v, want 2 attempted 2 completed", into)
	}
	inside := c.PassesInsideBox("")
	if inside.Attempted != 1 || inside.Completed != 1 || !almost(inside.CompletionPercentage, 1) {
		t.Fatalf("PassesInsideBox = %+v", inside)
	}
}

func TestOpenPlayPassesIntoBox(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha", func(e *event.Event) {
			e.PassEndX, e.PassEndY = num(110), num(40)
		}),
		pass("Ana", "Alpha", func(e *event.Event) {
			e.PassEndX, e.PassEndY = num(110), num(40)
			e.PassType = str("Corner")
		}),
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	if got := c.OpenPlayPassesIntoBox("").Attempted; got != 1 {
		t.Fatalf("open play into box attempted = %d, want 1", got)
	}
	if got := c.PassesIntoBox("").Attempted; got != 2 {
		t.Fatalf("all into box attempted = %d, want 2", got)
	}
}

func TestDeepProgressions(t *testing.T) {
	vector := func(x, endX, endY float64) func(*event.Event) {
		return func(e *event.Event) {
			e.X, e.Y, e.PassEndX, e.PassEndY = num(x), num(40), num(endX), num(endY)
		}
	}
	rows := []event.Event{
		pass("Ana", "Alpha", vector(50, 110, 40)),             // middle into final third
		pass("Ana", "Alpha", vector(30, 105, 40), incomplete), // defensive into box, incomplete
		pass("Ana", "Alpha", vector(110, 115, 40)),            // already in final third
		pass("Ana", "Alpha", func(e *event.Event) {            // unknown start excluded
			e.PassEndX, e.PassEndY = num(110), num(40)
		}),
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	deep := c.DeepProgressions("")
	if deep.Attempted != 2 || deep.Completed != 1 {
		t.Fatalf("DeepProgressions = %+v, want 2 attempted 1 completed", deep)
	}
	if !almost(deep.CompletionPercentage, 0.5) {
		t.Fatalf("deep progression completion = %v, want 0.5", deep.CompletionPercentage)
	}
}

func TestPressureMetrics(t *testing.T) {
	withLength := func(l float64, pressured bool) func(*event.Event) {
		return func(e *event.Event) {
			e.PassLength = num(l)
			if pressured {
				e.UnderPressure = "true"
			}
		}
	}
	rows := []event.Event{
		pass("Ana", "Alpha", withLength(10, true)),
		pass("Ana", "Alpha", withLength(20, true), incomplete),
		pass("Ana", "Alpha", withLength(30, false)),
		pass("Ana", "Alpha", withLength(40, false)),
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	if got := c.PassesPressuredPercentage(""); !almost(got, 0.5) {
		t.Fatalf("PassesPressuredPercentage = %v, want 0.5", got)
	}
	if got := c.PressuredPassPercentage(""); !almost(got, 0.5) {
		t.Fatalf("PressuredPassPercentage = %v, want 0.5", got)
	}
	if got := c.PressuredPassPercentDifference(""); !almost(got, 0.5-0.75) {
		t.Fatalf("PressuredPassPercentDifference = %v, want -0.25", got)
	}
	if got := c.PressuredPassLength(""); !almost(got, 15) {
		t.Fatalf("PressuredPassLength = %v, want 15", got)
	}
	if got := c.SuccessfulPressuredPassLength(""); !almost(got, 10) {
		t.Fatalf("SuccessfulPressuredPassLength = %v, want 10", got)
	}
	if got := c.PressuredPassLengthDifference(""); !almost(got, 15-25) {
		t.Fatalf("PressuredPassLengthDifference = %v, want -10", got)
	}
}

func TestPer90Variants(t *testing.T) {
	finalThird := func(e *event.Event) { e.X, e.Y = num(100), num(40) }
	rows := []event.Event{
		pass("Ana", "Alpha", finalThird),
		pass("Ana", "Alpha", finalThird),
	}
	ds := event.NewDataset(rows)

	c := NewPlayer(ds, "Ana", fixedLength())
	if got := c.OpenPlayFinalThirdPassesPer90(""); got != 0 {
		t.Fatalf("per-90 without minutes = %v, want 0", got)
	}

	c.SetMinutes(map[string]float64{"Ana": 45})
	if got := c.OpenPlayFinalThirdPassesPer90(""); !almost(got, 4) {
		t.Fatalf("per-90 with 45 minutes = %v, want 4", got)
	}
	if got := c.OpenPlayFinalThirdPassesPer90("Unknown"); got != 0 {
		t.Fatalf("per-90 for unknown player = %v, want 0", got)
	}
}

func TestEmptyDatasetTypedZeros(t *testing.T) {
	c := NewCompetition(event.NewDataset(nil), Config{})

	if got := c.PassingPercentage(""); got != 0 {
		t.Fatalf("PassingPercentage = %v, want 0", got)
	}
	if got := c.PassLength(""); got != 0 {
		t.Fatalf("PassLength = %v, want 0", got)
	}
	if got := c.ThroughBalls(""); got != (Breakdown{}) {
		t.Fatalf("ThroughBalls = %+v, want zero", got)
	}
	if got := c.DirectionSplit(""); got != (DirectionBreakdown{}) {
		t.Fatalf("DirectionSplit = %+v, want zero", got)
	}
	if got := c.PressuredPassPercentDifference(""); got != 0 {
		t.Fatalf("PressuredPassPercentDifference = %v, want 0", got)
	}
	flows := c.ThirdFlows("")
	if flows.FromDefensive != 0 || flows.FromMiddle != 0 || flows.FromFinal != 0 {
		t.Fatalf("ThirdFlows origin counts = %+v, want zero", flows)
	}
	if len(flows.Flows) != 9 {
		t.Fatalf("ThirdFlows on empty dataset has %d cells, want 9", len(flows.Flows))
	}
	table := c.TopThroughBallCreators(5)
	if len(table.Rows) != 0 || len(table.Columns) != 4 {
		t.Fatalf("empty creators table = %+v", table)
	}
	if got := c.PitchLength(); !almost(got, pitch.DefaultLength) {
		t.Fatalf("inferred pitch length on empty dataset = %v", got)
	}
}

func TestTopThroughBallCreators(t *testing.T) {
	through := func(e *event.Event) { e.PassThroughBall = "true" }
	rows := []event.Event{
		pass("Ana", "Alpha", through),
		pass("Ana", "Alpha", through, incomplete),
		pass("Ana", "Alpha", through),
		pass("Bo", "Beta", through),
		pass("Bo", "Beta"), // plain pass, not ranked
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	table := c.TopThroughBallCreators(5)
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	ana := table.Rows[0]
	if ana.Key != "Ana" || ana.Value != 3 || !almost(ana.Derived[0], 2) || !almost(ana.Derived[1], 2.0/3.0) {
		t.Fatalf("first row = %+v", ana)
	}
	bo := table.Rows[1]
	if bo.Key != "Bo" || bo.Value != 1 || !almost(bo.Derived[0], 1) || !almost(bo.Derived[1], 1) {
		t.Fatalf("second row = %+v", bo)
	}
}

func TestTopPassersAndAssisters(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha"),
		pass("Ana", "Alpha"),
		pass("Ana", "Alpha", func(e *event.Event) { e.PassGoalAssist = "true" }),
		pass("Bo", "Beta"),
		pass("Bo", "Beta", incomplete),
	}

	c := NewCompetition(event.NewDataset(rows), fixedLength())
	passers := c.TopPassers(1)
	if len(passers.Rows) != 1 || passers.Rows[0].Key != "Ana" || passers.Rows[0].Value != 3 {
		t.Fatalf("TopPassers = %+v", passers)
	}
	assisters := c.TopAssisters(5)
	if len(assisters.Rows) != 1 || assisters.Rows[0].Key != "Ana" || assisters.Rows[0].Value != 1 {
		t.Fatalf("TopAssisters = %+v", assisters)
	}
}

func TestRepeatedInvocationIsStable(t *testing.T) {
	rows := []event.Event{
		pass("Ana", "Alpha", func(e *event.Event) { e.PassThroughBall = "true" }),
		pass("Bo", "Beta", func(e *event.Event) { e.PassThroughBall = "true" }),
		pass("Cy", "Beta", func(e *event.Event) { e.PassThroughBall = "true" }),
	}
	c := NewCompetition(event.NewDataset(rows), fixedLength())

	first := c.TopThroughBallCreators(3)
	for i := 0; i < 20; i++ {
		again := c.TopThroughBallCreators(3)
		for j := range first.Rows {
			if again.Rows[j].Key != first.Rows[j].Key {
				t.Fatalf("iteration %d: row %d key %q, want %q",
					i, j, again.Rows[j].Key, first.Rows[j].Key)
			}
		}
	}
}
