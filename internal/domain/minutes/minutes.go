// Package minutes rebuilds per-player time on the pitch from discrete
// lineup, substitution and card events, and provides per-90 normalization
// over the result.
package minutes

import (
	"sort"
	"strconv"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/platform/logging"
)

// maxMatchMinutes caps a match end at the end of second extra time;
// penalty-shootout events never extend time on the pitch.
const maxMatchMinutes = 120.0

// DefaultMatchMinutes closes a match whose timeline carries no usable clock
// at the regulation length. It is never used to fabricate minutes for a
// player who is absent from the output map.
const DefaultMatchMinutes = 90.0

// Reconstructor computes minutes on pitch per player across the provided
// scope (one match or many). The zero value is ready to use.
type Reconstructor struct {
	// MatchMinutesFallback substitutes for the match end when a match has
	// events but none with a usable clock. Zero means DefaultMatchMinutes.
	MatchMinutesFallback float64

	Logger *logging.Logger
}

// window is one half-open on-pitch interval [On, Off) in absolute minutes.
// Off < 0 marks a window still open when the stream ends.
type window struct {
	On  float64
	Off float64
}

// Compute returns total minutes per player, summed across matches. Players
// never confirmed on the pitch are absent from the map; an empty map means
// "minutes unknown", which callers must not conflate with zero. Datasets
// lacking the minimum identity information produce an empty map and a log
// line rather than an error.
func (r Reconstructor) Compute(ds event.Dataset) map[string]float64 {
	totals := make(map[string]float64)
	if ds.Len() == 0 {
		return totals
	}
	if !hasIdentityInfo(ds) {
		r.logger().Warn("minutes reconstruction skipped",
			"reason", "dataset lacks player/type/match identity")
		return totals
	}

	for _, mdf := range splitByMatch(ds) {
		r.computeMatch(mdf, totals)
	}
	return totals
}

func (r Reconstructor) computeMatch(rows []event.Event, totals map[string]float64) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		if rows[i].Minute != rows[j].Minute {
			return rows[i].Minute < rows[j].Minute
		}
		return rows[i].Second < rows[j].Second
	})

	windows := make(map[string][]window)
	openWindow := func(player string, t float64) {
		if t < 0 {
			t = 0
		}
		ws := windows[player]
		if len(ws) > 0 && ws[len(ws)-1].Off < 0 {
			// Data errors occasionally re-introduce a player who is already
			// on; keep the open window rather than failing.
			return
		}
		windows[player] = append(ws, window{On: t, Off: -1})
	}
	closeWindow := func(player string, t float64) {
		ws := windows[player]
		if len(ws) == 0 || ws[len(ws)-1].Off >= 0 {
			return
		}
		ws[len(ws)-1].Off = t
	}

	for _, e := range rows {
		if e.Type == event.TypeStartingXI && e.Player != "" {
			openWindow(e.Player, 0)
		}
	}

	lastMinute := -1.0
	for _, e := range rows {
		t := e.AbsoluteMinute()
		if t > lastMinute {
			lastMinute = t
		}

		if e.Type == event.TypeSubstitution {
			if e.Player != "" {
				closeWindow(e.Player, t)
			}
			if e.SubstitutionReplacement != "" {
				openWindow(e.SubstitutionReplacement, t)
			}
		}

		switch e.CardType {
		case event.CardRed, event.CardSecondYellow:
			if e.Player != "" {
				closeWindow(e.Player, t)
			}
		}
	}

	matchEnd := lastMinute
	if matchEnd <= 0 {
		matchEnd = r.matchMinutesFallback()
	}
	if matchEnd > maxMatchMinutes {
		matchEnd = maxMatchMinutes
	}

	for player, ws := range windows {
		for _, w := range ws {
			off := w.Off
			if off < 0 {
				off = matchEnd
			}
			if played := off - w.On; played > 0 {
				totals[player] += played
			}
		}
	}
}

func (r Reconstructor) matchMinutesFallback() float64 {
	if r.MatchMinutesFallback > 0 {
		return r.MatchMinutesFallback
	}
	return DefaultMatchMinutes
}

func (r Reconstructor) logger() *logging.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.Default()
}

// hasIdentityInfo checks the typed equivalent of the source's required
// columns: at least one row must carry an event type, a match key and a
// player identity.
func hasIdentityInfo(ds event.Dataset) bool {
	hasType, hasMatch, hasPlayer := false, false, false
	for _, e := range ds.Rows() {
		if e.Type != "" {
			hasType = true
		}
		if e.MatchID != 0 || e.MatchName != "" {
			hasMatch = true
		}
		if e.Player != "" || e.SubstitutionReplacement != "" {
			hasPlayer = true
		}
		if hasType && hasMatch && hasPlayer {
			return true
		}
	}
	return false
}

// splitByMatch groups rows per match, preserving source order within each
// group and the first-seen order of matches. The match name is preferred as
// key, falling back to the numeric id, mirroring the column preference order
// of the export.
func splitByMatch(ds event.Dataset) [][]event.Event {
	index := make(map[string]int)
	groups := make([][]event.Event, 0)
	for _, e := range ds.Rows() {
		key := e.MatchName
		if key == "" {
			key = strconv.FormatInt(e.MatchID, 10)
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}

// Per90 normalizes a count to a per-90-minutes basis. Zero, negative or
// unknown minutes yield 0.0; unknown minutes are never silently treated as
// a full match.
func Per90(value, minutesPlayed float64) float64 {
	if minutesPlayed <= 0 {
		return 0.0
	}
	return value * 90.0 / minutesPlayed
}
