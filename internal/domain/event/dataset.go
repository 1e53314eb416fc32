package event

import (
	"sort"
	"strconv"
)

// Dataset is a read-only view over a slice of events. Constructors and
// filters copy the backing slice header so a scoped view never observes
// later changes to its source.
type Dataset struct {
	rows []Event
}

func NewDataset(rows []Event) Dataset {
	copied := make([]Event, len(rows))
	copy(copied, rows)
	return Dataset{rows: copied}
}

func (d Dataset) Len() int { return len(d.rows) }

// Rows exposes the backing slice for iteration. Callers must treat it as
// read-only; every mutation path goes through a filter instead.
func (d Dataset) Rows() []Event { return d.rows }

func (d Dataset) filter(keep func(Event) bool) Dataset {
	out := make([]Event, 0, len(d.rows))
	for _, e := range d.rows {
		if keep(e) {
			out = append(out, e)
		}
	}
	return Dataset{rows: out}
}

func (d Dataset) ByType(eventType string) Dataset {
	return d.filter(func(e Event) bool { return e.Type == eventType })
}

func (d Dataset) ByTeam(team string) Dataset {
	return d.filter(func(e Event) bool { return e.Team == team })
}

func (d Dataset) ByPlayer(player string) Dataset {
	return d.filter(func(e Event) bool { return e.Player == player })
}

func (d Dataset) ByMatchID(id int64) Dataset {
	return d.filter(func(e Event) bool { return e.MatchID == id })
}

func (d Dataset) ByMatchName(name string) Dataset {
	return d.filter(func(e Event) bool { return e.MatchName == name })
}

// ByMatchKey accepts either a numeric match id or a match name, the two
// identifiers the combined export carries.
func (d Dataset) ByMatchKey(key string) Dataset {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return d.ByMatchID(id)
	}
	return d.ByMatchName(key)
}

// MaxX reports the largest observed start or pass-end x coordinate. The
// pitch classifier uses it to infer whether the dataset follows a 0-100 or
// 0-120 convention when no explicit pitch length is configured.
func (d Dataset) MaxX() (float64, bool) {
	max, found := 0.0, false
	for _, e := range d.rows {
		if e.X != nil && (!found || *e.X > max) {
			max, found = *e.X, true
		}
		if e.PassEndX != nil && (!found || *e.PassEndX > max) {
			max, found = *e.PassEndX, true
		}
	}
	return max, found
}

// Teams returns the distinct team names in the dataset, sorted.
func (d Dataset) Teams() []string {
	return d.distinct(func(e Event) string { return e.Team })
}

// Players returns the distinct player names in the dataset, sorted.
func (d Dataset) Players() []string {
	return d.distinct(func(e Event) string { return e.Player })
}

func (d Dataset) distinct(key func(Event) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range d.rows {
		k := key(e)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MatchRef identifies one match by both of its keys.
type MatchRef struct {
	ID   int64
	Name string
}

// Matches returns the distinct matches in the dataset, ordered by id.
func (d Dataset) Matches() []MatchRef {
	seen := make(map[int64]struct{})
	out := make([]MatchRef, 0)
	for _, e := range d.rows {
		if e.MatchID == 0 && e.MatchName == "" {
			continue
		}
		if _, ok := seen[e.MatchID]; ok {
			continue
		}
		seen[e.MatchID] = struct{}{}
		out = append(out, MatchRef{ID: e.MatchID, Name: e.MatchName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
