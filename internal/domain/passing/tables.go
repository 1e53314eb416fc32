package passing

import (
	"github.com/riskibarqy/pitchmetrics/internal/domain/aggregate"
	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

func playerKey(e event.Event) string { return e.Player }

// TopPassers ranks players by completed passes.
func (c *Catalog) TopPassers(n int) aggregate.Table {
	table := aggregate.Table{Columns: []string{"player", "completed_passes"}}
	if n <= 0 {
		return table
	}
	groups := aggregate.CountBy(c.passes, playerKey, aggregate.MaskOf(c.passes, c.success))
	if len(groups) > n {
		groups = groups[:n]
	}
	for _, g := range groups {
		table.Rows = append(table.Rows, aggregate.Row{Key: g.Key, Value: g.Count})
	}
	return table
}

// TopAssisters ranks players by goal-assist passes.
func (c *Catalog) TopAssisters(n int) aggregate.Table {
	return aggregate.TopByBool(c.passes, func(e event.Event) bool {
		return e.PassGoalAssist.True()
	}, playerKey, "player", n, "assists")
}

// TopThroughBallCreators ranks players by attempted through balls, with
// completed count and completion rate appended.
func (c *Catalog) TopThroughBallCreators(n int) aggregate.Table {
	return c.qualifierTable(c.isThroughBall, n)
}

// TopDeepProgressors ranks players by attempted deep progressions, with
// completed count and completion rate appended.
func (c *Catalog) TopDeepProgressors(n int) aggregate.Table {
	return c.qualifierTable(c.isDeepProgression, n)
}

// qualifierTable ranks players by attempts matching the qualifier. Ranking
// and per-player figures come from the same primitives, so the table agrees
// with the player-scoped metrics row by row.
func (c *Catalog) qualifierTable(qualifier func(event.Event) bool, n int) aggregate.Table {
	table := aggregate.Table{Columns: []string{"player", "attempted", "completed", "completion_pct"}}
	if n <= 0 {
		return table
	}
	groups := aggregate.CountBy(c.passes, playerKey, aggregate.MaskOf(c.passes, qualifier))
	if len(groups) > n {
		groups = groups[:n]
	}
	for _, g := range groups {
		sub := c.passes.ByPlayer(g.Key)
		mask := aggregate.MaskOf(sub, qualifier)
		completed := aggregate.Successes(sub, c.success, mask)
		rate := aggregate.Rate(sub, c.success, mask)
		table.Rows = append(table.Rows, aggregate.Row{
			Key:     g.Key,
			Value:   g.Count,
			Derived: []float64{float64(completed), rate},
		})
	}
	return table
}
