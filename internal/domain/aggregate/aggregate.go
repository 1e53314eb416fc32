// Package aggregate holds the reusable counting primitives every metric is
// built from. The hard contract: primitives are side-effect-free, tolerate
// empty datasets and absent optional fields, and never return NaN or an
// error. A metric queried on a scope that lacks a column degrades to its
// typed zero value.
package aggregate

import (
	"sort"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

// Mask marks the rows of one dataset that satisfy a predicate. A nil Mask
// means "no constraint" so optional filters can be passed through untouched.
type Mask []bool

// MaskOf evaluates a row predicate over the dataset. A nil predicate yields
// an all-false mask, the degraded result for an unbound column.
func MaskOf(ds event.Dataset, pred func(event.Event) bool) Mask {
	mask := make(Mask, ds.Len())
	if pred == nil {
		return mask
	}
	for i, e := range ds.Rows() {
		mask[i] = pred(e)
	}
	return mask
}

// SuccessPredicate decides whether a single event represents a successful
// action. The domain convention is that an unfilled outcome field signals
// the default positive result, so predicates are usually built with
// NullMeansSuccess over a family-specific outcome accessor.
type SuccessPredicate func(event.Event) bool

// NullMeansSuccess builds the standard predicate: nil outcome == success.
// A nil accessor (the family has no outcome column bound) marks every row
// unsuccessful rather than failing.
func NullMeansSuccess(outcome func(event.Event) *string) SuccessPredicate {
	if outcome == nil {
		return func(event.Event) bool { return false }
	}
	return func(e event.Event) bool { return outcome(e) == nil }
}

func rowMatches(i int, masks []Mask) bool {
	for _, m := range masks {
		if m == nil {
			continue
		}
		if i >= len(m) || !m[i] {
			return false
		}
	}
	return true
}

// Attempts counts rows matching the AND of all masks.
func Attempts(ds event.Dataset, masks ...Mask) int {
	count := 0
	for i := 0; i < ds.Len(); i++ {
		if rowMatches(i, masks) {
			count++
		}
	}
	return count
}

// Successes counts rows matching all masks and the success predicate.
func Successes(ds event.Dataset, succ SuccessPredicate, masks ...Mask) int {
	if succ == nil {
		return 0
	}
	count := 0
	for i, e := range ds.Rows() {
		if rowMatches(i, masks) && succ(e) {
			count++
		}
	}
	return count
}

// Rate is Successes over Attempts for the same masks, 0.0 when there are no
// attempts.
func Rate(ds event.Dataset, succ SuccessPredicate, masks ...Mask) float64 {
	attempts := Attempts(ds, masks...)
	if attempts == 0 {
		return 0.0
	}
	return float64(Successes(ds, succ, masks...)) / float64(attempts)
}

// MeanOf averages a numeric field over matching rows. Rows where the field
// is absent are excluded from both sum and count; an empty match set yields
// 0.0.
func MeanOf(ds event.Dataset, value func(event.Event) *float64, masks ...Mask) float64 {
	if value == nil {
		return 0.0
	}
	sum, n := 0.0, 0
	for i, e := range ds.Rows() {
		if !rowMatches(i, masks) {
			continue
		}
		v := value(e)
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// SumOf totals a numeric field over matching rows, skipping absent values.
func SumOf(ds event.Dataset, value func(event.Event) *float64, masks ...Mask) float64 {
	if value == nil {
		return 0.0
	}
	sum := 0.0
	for i, e := range ds.Rows() {
		if !rowMatches(i, masks) {
			continue
		}
		if v := value(e); v != nil {
			sum += *v
		}
	}
	return sum
}

// CountBy groups matching rows by a key and returns one row per key in a
// deterministic order: count descending, ties broken by the key's first
// appearance in the dataset. Rows with an empty key are skipped.
func CountBy(ds event.Dataset, key func(event.Event) string, masks ...Mask) []GroupCount {
	if key == nil {
		return nil
	}
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)
	for i, e := range ds.Rows() {
		if !rowMatches(i, masks) {
			continue
		}
		k := key(e)
		if k == "" {
			continue
		}
		if _, ok := counts[k]; !ok {
			firstSeen[k] = len(order)
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]GroupCount, 0, len(order))
	for _, k := range order {
		out = append(out, GroupCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Key] < firstSeen[out[j].Key]
	})
	return out
}

// GroupCount is one row of a frequency grouping.
type GroupCount struct {
	Key   string
	Count int
}

// TopN is the generic top-N-by-frequency table for a grouping key.
func TopN(ds event.Dataset, key func(event.Event) string, keyName string, n int, valueName string) Table {
	table := Table{Columns: []string{keyName, valueName}}
	if n <= 0 {
		return table
	}
	groups := CountBy(ds, key)
	if len(groups) > n {
		groups = groups[:n]
	}
	for _, g := range groups {
		table.Rows = append(table.Rows, Row{Key: g.Key, Value: g.Count})
	}
	return table
}

// TopByBool is TopN restricted to rows where a boolean-like flag is truthy,
// e.g. top assisters via the goal-assist flag.
func TopByBool(ds event.Dataset, flag func(event.Event) bool, key func(event.Event) string, keyName string, n int, valueName string) Table {
	table := Table{Columns: []string{keyName, valueName}}
	if flag == nil || n <= 0 {
		return table
	}
	groups := CountBy(ds, key, MaskOf(ds, flag))
	if len(groups) > n {
		groups = groups[:n]
	}
	for _, g := range groups {
		table.Rows = append(table.Rows, Row{Key: g.Key, Value: g.Count})
	}
	return table
}
