package memory

import (
	"fmt"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

// Development fixture: one full-length friendly plus a short second match so
// every scope and the cross-match minutes sum have data to chew on.
const (
	SeedMatchOneID   = 950101
	SeedMatchOneName = "Borneo Garuda vs Java Phoenix"
	SeedMatchTwoID   = 950102
	SeedMatchTwoName = "Borneo Garuda vs Sumatra Tigers"

	SeedTeamGaruda  = "Borneo Garuda"
	SeedTeamPhoenix = "Java Phoenix"
	SeedTeamTigers  = "Sumatra Tigers"
)

func fv(v float64) *float64 { return &v }
func sv(v string) *string   { return &v }

type seedBuilder struct {
	rows      []event.Event
	matchID   int64
	matchName string
	seq       int
}

func (b *seedBuilder) add(e event.Event) {
	b.seq++
	e.ID = fmt.Sprintf("seed-%d-%04d", b.matchID, b.seq)
	e.Index = b.seq
	e.MatchID = b.matchID
	e.MatchName = b.matchName
	b.rows = append(b.rows, e)
}

func (b *seedBuilder) starter(team, player string) {
	b.add(event.Event{Team: team, Player: player, Period: 1, Type: event.TypeStartingXI})
}

func (b *seedBuilder) pass(team, player string, period, minute int, mods ...func(*event.Event)) {
	e := event.Event{Team: team, Player: player, Period: period, Minute: minute, Type: event.TypePass}
	for _, mod := range mods {
		mod(&e)
	}
	b.add(e)
}

func vector(x, y, endX, endY float64) func(*event.Event) {
	return func(e *event.Event) {
		e.X, e.Y = fv(x), fv(y)
		e.PassEndX, e.PassEndY = fv(endX), fv(endY)
	}
}

func length(l float64) func(*event.Event) {
	return func(e *event.Event) { e.PassLength = fv(l) }
}

func incomplete(e *event.Event) { e.PassOutcome = sv("Incomplete") }
func pressured(e *event.Event)  { e.UnderPressure = "true" }

// SeedEvents returns the built-in development event log.
func SeedEvents() []event.Event {
	b := &seedBuilder{matchID: SeedMatchOneID, matchName: SeedMatchOneName}

	for _, p := range []string{"Rahmat Hidayat", "Eko Saputra", "Bima Nugroho"} {
		b.starter(SeedTeamGaruda, p)
	}
	for _, p := range []string{"Andi Wijaya", "Putra Pratama", "Joko Santoso"} {
		b.starter(SeedTeamPhoenix, p)
	}

	// Build-up play with a spread of zones, lengths and outcomes.
	b.pass(SeedTeamGaruda, "Rahmat Hidayat", 1, 2, vector(30, 40, 55, 42), length(25.1))
	b.pass(SeedTeamGaruda, "Eko Saputra", 1, 5, vector(55, 42, 98, 44), length(43), pressured)
	b.pass(SeedTeamGaruda, "Bima Nugroho", 1, 9, vector(98, 44, 110, 40), length(12.6))
	b.pass(SeedTeamGaruda, "Rahmat Hidayat", 1, 14, vector(60, 20, 108, 30), length(49), incomplete)
	b.pass(SeedTeamGaruda, "Bima Nugroho", 1, 23, vector(104, 35, 112, 44), length(12))
	b.pass(SeedTeamGaruda, "Eko Saputra", 1, 31, vector(70, 60, 95, 70), length(26.9), pressured, incomplete)
	b.pass(SeedTeamGaruda, "Rahmat Hidayat", 1, 40, func(e *event.Event) {
		vector(85, 40, 112, 41)(e)
		length(27.1)(e)
		e.PassThroughBall = "true"
	})
	b.pass(SeedTeamGaruda, "Bima Nugroho", 2, 3, func(e *event.Event) {
		vector(88, 30, 109, 36)(e)
		length(22)(e)
		e.PassTechnique = sv("Through Ball")
		e.PassGoalAssist = "true"
	})
	b.pass(SeedTeamGaruda, "Eko Saputra", 2, 12, func(e *event.Event) {
		vector(120, 0, 108, 38)(e)
		length(40.1)(e)
		e.PassType = sv("Corner")
	})

	b.pass(SeedTeamPhoenix, "Andi Wijaya", 1, 4, vector(40, 40, 62, 38), length(22.1))
	b.pass(SeedTeamPhoenix, "Putra Pratama", 1, 11, vector(62, 38, 50, 20), length(21.6), pressured)
	b.pass(SeedTeamPhoenix, "Joko Santoso", 1, 19, vector(50, 20, 90, 25), length(40.3), incomplete)
	b.pass(SeedTeamPhoenix, "Andi Wijaya", 2, 8, vector(75, 50, 103, 55), length(28.4))
	b.pass(SeedTeamPhoenix, "Putra Pratama", 2, 25, func(e *event.Event) {
		vector(55, 45, 100, 40)(e)
		length(45.3)(e)
		e.PassType = sv("Free Kick")
	})

	// A pair of shots keeps the log honest about non-pass rows.
	b.add(event.Event{Team: SeedTeamGaruda, Player: "Bima Nugroho", Period: 2, Minute: 4,
		Type: event.TypeShot, X: fv(109), Y: fv(36), ShotXG: fv(0.31), ShotOutcome: sv("Goal")})
	b.add(event.Event{Team: SeedTeamPhoenix, Player: "Andi Wijaya", Period: 2, Minute: 9,
		Type: event.TypeShot, X: fv(103), Y: fv(55), ShotXG: fv(0.07), ShotOutcome: sv("Saved")})

	// Substitution and a straight red shorten two appearances.
	b.add(event.Event{Team: SeedTeamGaruda, Player: "Eko Saputra", Period: 2, Minute: 20,
		Type: event.TypeSubstitution, SubstitutionReplacement: "Dimas Maulana"})
	b.pass(SeedTeamGaruda, "Dimas Maulana", 2, 33, vector(50, 40, 72, 45), length(23.1))
	b.add(event.Event{Team: SeedTeamPhoenix, Player: "Joko Santoso", Period: 2, Minute: 40,
		Type: "Bad Behaviour", CardType: event.CardRed})
	b.pass(SeedTeamPhoenix, "Andi Wijaya", 2, 48, vector(45, 40, 60, 44), length(15.5))

	rows := b.rows

	c := &seedBuilder{matchID: SeedMatchTwoID, matchName: SeedMatchTwoName}
	for _, p := range []string{"Rahmat Hidayat", "Bima Nugroho"} {
		c.starter(SeedTeamGaruda, p)
	}
	c.starter(SeedTeamTigers, "Fajar Ramadhan")
	c.pass(SeedTeamGaruda, "Rahmat Hidayat", 1, 6, vector(35, 40, 80, 44), length(45.2))
	c.pass(SeedTeamGaruda, "Bima Nugroho", 1, 17, vector(80, 44, 104, 40), length(24.3), pressured)
	c.pass(SeedTeamTigers, "Fajar Ramadhan", 1, 28, vector(50, 30, 44, 52), length(22.8), incomplete)
	c.pass(SeedTeamGaruda, "Rahmat Hidayat", 2, 44, vector(66, 40, 90, 41), length(24))

	return append(rows, c.rows...)
}
