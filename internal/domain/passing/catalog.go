// Package passing is the pass-metric catalog. A Catalog is built over an
// already-scoped dataset by one of the scope constructors; every metric is
// expressed through the aggregate primitives and inherits their contract:
// empty scopes and absent columns degrade to typed zero values, never errors.
package passing

import (
	"regexp"

	"github.com/riskibarqy/pitchmetrics/internal/domain/aggregate"
	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/domain/minutes"
	"github.com/riskibarqy/pitchmetrics/internal/domain/pitch"
)

// DefaultLongBallMinLength is the minimum pass length, in pitch units, for a
// pass to qualify as a long ball.
const DefaultLongBallMinLength = 35.0

// Pass type labels excluded from open play.
var setPiecePassTypes = map[string]struct{}{
	"Corner":    {},
	"Free Kick": {},
	"Throw-in":  {},
}

// Play pattern labels excluded from open play when the pass type is absent.
var setPiecePlayPatterns = map[string]struct{}{
	"From Corner":    {},
	"From Free Kick": {},
	"From Throw In":  {},
}

// Through balls are tagged either by the dedicated flag or only in the free
// text technique column, depending on export vintage. Both spellings occur.
var throughBallTechnique = regexp.MustCompile(`(?i)\bthrough[- ]?ball\b`)

// Config tunes a catalog. The zero value selects the conventions of the
// flattened StatsBomb exports this service is built around.
type Config struct {
	// EventType is the type label of pass rows. Empty means event.TypePass.
	EventType string
	// Success overrides the success convention. Nil means a pass with no
	// recorded outcome succeeded, which is how the exports encode completion.
	Success aggregate.SuccessPredicate
	// LongBallMinLength in pitch units. Zero means DefaultLongBallMinLength.
	LongBallMinLength float64
	// PitchLength fixes the third boundaries. Zero means infer from the
	// maximum observed coordinate of the scoped dataset.
	PitchLength float64
}

// Breakdown is the attempted/completed/rate triple most boxed metrics
// report.
type Breakdown struct {
	Attempted            int     `json:"attempted"`
	Completed            int     `json:"completed"`
	CompletionPercentage float64 `json:"completion_pct"`
}

// DirectionBreakdown reports the share of each direction bucket over the
// directional denominator: passes whose direction could be classified.
// The three shares sum to 1 whenever Classified is non-zero.
type DirectionBreakdown struct {
	Classified int     `json:"classified"`
	Forward    float64 `json:"forward_pct"`
	Sideways   float64 `json:"sideways_pct"`
	Backward   float64 `json:"backward_pct"`
}

// Catalog answers every pass metric for one scope. All methods accept a
// player filter; the empty string means the whole scope. Catalogs are
// read-only after construction except for SetMinutes and never mutate their
// dataset.
type Catalog struct {
	kind ScopeKind
	key  string

	passes      event.Dataset
	success     aggregate.SuccessPredicate
	longBallMin float64
	pitchLength float64
	minutes     map[string]float64
}

func newCatalog(kind ScopeKind, key string, ds event.Dataset, cfg Config) *Catalog {
	eventType := cfg.EventType
	if eventType == "" {
		eventType = event.TypePass
	}

	success := cfg.Success
	if success == nil {
		success = aggregate.NullMeansSuccess(func(e event.Event) *string { return e.PassOutcome })
	}

	longBallMin := cfg.LongBallMinLength
	if longBallMin <= 0 {
		longBallMin = DefaultLongBallMinLength
	}

	pitchLength := cfg.PitchLength
	if pitchLength <= 0 {
		if observed, ok := ds.MaxX(); ok {
			pitchLength = observed
		} else {
			pitchLength = pitch.DefaultLength
		}
	}

	return &Catalog{
		kind:        kind,
		key:         key,
		passes:      ds.ByType(eventType),
		success:     success,
		longBallMin: longBallMin,
		pitchLength: pitchLength,
	}
}

// Scope reports the constructor kind and display key of this catalog.
func (c *Catalog) Scope() (ScopeKind, string) {
	return c.kind, c.key
}

// PitchLength reports the resolved third boundary basis.
func (c *Catalog) PitchLength() float64 {
	return c.pitchLength
}

// SetMinutes injects the reconstructed minutes-played map the per-90
// variants divide by. Without it every per-90 metric reports 0.
func (c *Catalog) SetMinutes(m map[string]float64) {
	c.minutes = m
}

func (c *Catalog) view(player string) event.Dataset {
	if player == "" {
		return c.passes
	}
	return c.passes.ByPlayer(player)
}

// Row predicates. Each tolerates missing fields by excluding the row.

func (c *Catalog) isOpenPlay(e event.Event) bool {
	if e.PassType != nil {
		_, setPiece := setPiecePassTypes[*e.PassType]
		return !setPiece
	}
	if e.PlayPattern != "" {
		_, setPiece := setPiecePlayPatterns[e.PlayPattern]
		return !setPiece
	}
	return true
}

func (c *Catalog) isThroughBall(e event.Event) bool {
	if e.PassThroughBall.True() {
		return true
	}
	return e.PassTechnique != nil && throughBallTechnique.MatchString(*e.PassTechnique)
}

func (c *Catalog) isLongBallAttempt(e event.Event) bool {
	return e.PassLength != nil && *e.PassLength >= c.longBallMin
}

func (c *Catalog) endsInBox(e event.Event) bool {
	return pitch.InBox(e.PassEndX, e.PassEndY)
}

func (c *Catalog) staysInsideBox(e event.Event) bool {
	return pitch.InBox(e.X, e.Y) && pitch.InBox(e.PassEndX, e.PassEndY)
}

func (c *Catalog) isFinalThirdPass(e event.Event) bool {
	return pitch.ThirdOf(e.X, c.pitchLength) == pitch.ThirdFinal ||
		pitch.ThirdOf(e.PassEndX, c.pitchLength) == pitch.ThirdFinal
}

// isDeepProgression marks passes that move play from outside the final third
// into the final third or the box.
func (c *Catalog) isDeepProgression(e event.Event) bool {
	start := pitch.ThirdOf(e.X, c.pitchLength)
	if start == pitch.ThirdUnknown || start == pitch.ThirdFinal {
		return false
	}
	return pitch.ThirdOf(e.PassEndX, c.pitchLength) == pitch.ThirdFinal || c.endsInBox(e)
}

func isPressured(e event.Event) bool {
	return e.UnderPressure.True()
}

func (c *Catalog) breakdown(ds event.Dataset, qualifier func(event.Event) bool) Breakdown {
	mask := aggregate.MaskOf(ds, qualifier)
	return Breakdown{
		Attempted:            aggregate.Attempts(ds, mask),
		Completed:            aggregate.Successes(ds, c.success, mask),
		CompletionPercentage: aggregate.Rate(ds, c.success, mask),
	}
}

// Volume and completion.

// PassesAttempted counts pass rows in scope.
func (c *Catalog) PassesAttempted(player string) int {
	return aggregate.Attempts(c.view(player))
}

// PassesCompleted counts completed passes in scope.
func (c *Catalog) PassesCompleted(player string) int {
	return aggregate.Successes(c.view(player), c.success)
}

// PassingPercentage is the scope-wide completion rate, 0 on an empty scope.
func (c *Catalog) PassingPercentage(player string) float64 {
	return aggregate.Rate(c.view(player), c.success)
}

// PassLength is the mean recorded length over all passes.
func (c *Catalog) PassLength(player string) float64 {
	return aggregate.MeanOf(c.view(player), passLength)
}

// SuccessfulPassLength is the mean recorded length over completed passes.
func (c *Catalog) SuccessfulPassLength(player string) float64 {
	ds := c.view(player)
	return aggregate.MeanOf(ds, passLength, aggregate.MaskOf(ds, c.success))
}

// Long balls.

// LongBalls counts completed passes of at least the configured length.
func (c *Catalog) LongBalls(player string) int {
	ds := c.view(player)
	return aggregate.Successes(ds, c.success, aggregate.MaskOf(ds, c.isLongBallAttempt))
}

// LongBallPercentage is the completion rate over long-ball attempts.
func (c *Catalog) LongBallPercentage(player string) float64 {
	ds := c.view(player)
	return aggregate.Rate(ds, c.success, aggregate.MaskOf(ds, c.isLongBallAttempt))
}

// Open play.

// OpenPlayPasses counts passes not taken from a corner, free kick or
// throw-in. Rows with neither a pass type nor a play pattern count as open
// play.
func (c *Catalog) OpenPlayPasses(player string) int {
	ds := c.view(player)
	return aggregate.Attempts(ds, aggregate.MaskOf(ds, c.isOpenPlay))
}

// Box metrics. The box is absolute in the 120x80 frame regardless of the
// resolved pitch length.

// PassesIntoBox covers passes ending inside the opponent box.
func (c *Catalog) PassesIntoBox(player string) Breakdown {
	return c.breakdown(c.view(player), c.endsInBox)
}

// OpenPlayPassesIntoBox restricts PassesIntoBox to open play.
func (c *Catalog) OpenPlayPassesIntoBox(player string) Breakdown {
	return c.breakdown(c.view(player), func(e event.Event) bool {
		return c.isOpenPlay(e) && c.endsInBox(e)
	})
}

// PassesInsideBox covers passes starting and ending inside the opponent box.
func (c *Catalog) PassesInsideBox(player string) Breakdown {
	return c.breakdown(c.view(player), c.staysInsideBox)
}

// Through balls.

// ThroughBalls covers passes flagged as through balls either by the
// dedicated column or by the technique text.
func (c *Catalog) ThroughBalls(player string) Breakdown {
	return c.breakdown(c.view(player), c.isThroughBall)
}

// Final third.

// FinalThirdPasses counts completed passes touching the final third at
// either end-point.
func (c *Catalog) FinalThirdPasses(player string) int {
	ds := c.view(player)
	return aggregate.Successes(ds, c.success, aggregate.MaskOf(ds, c.isFinalThirdPass))
}

// OpenPlayFinalThirdPasses restricts FinalThirdPasses to open play.
func (c *Catalog) OpenPlayFinalThirdPasses(player string) int {
	ds := c.view(player)
	mask := aggregate.MaskOf(ds, func(e event.Event) bool {
		return c.isOpenPlay(e) && c.isFinalThirdPass(e)
	})
	return aggregate.Successes(ds, c.success, mask)
}

// Direction splits.

// DirectionSplit buckets every classifiable pass vector over the whole
// pitch.
func (c *Catalog) DirectionSplit(player string) DirectionBreakdown {
	return c.directionSplit(c.view(player), nil)
}

// DirectionSplitByThird restricts the split to passes starting in the given
// third.
func (c *Catalog) DirectionSplitByThird(third pitch.Third, player string) DirectionBreakdown {
	ds := c.view(player)
	zone := aggregate.MaskOf(ds, func(e event.Event) bool {
		return pitch.ThirdOf(e.X, c.pitchLength) == third
	})
	return c.directionSplit(ds, zone)
}

func (c *Catalog) directionSplit(ds event.Dataset, zone aggregate.Mask) DirectionBreakdown {
	var out DirectionBreakdown
	var forward, sideways, backward int
	for i, e := range ds.Rows() {
		if zone != nil && !zone[i] {
			continue
		}
		switch pitch.DirectionOf(e.X, e.Y, e.PassEndX, e.PassEndY) {
		case pitch.DirectionForward:
			forward++
		case pitch.DirectionSideways:
			sideways++
		case pitch.DirectionBackward:
			backward++
		default:
			continue
		}
	}
	out.Classified = forward + sideways + backward
	if out.Classified == 0 {
		return out
	}
	total := float64(out.Classified)
	out.Forward = float64(forward) / total
	out.Sideways = float64(sideways) / total
	out.Backward = float64(backward) / total
	return out
}

// Third flows.

// ThirdFlow is one origin-to-destination cell of the flow matrix.
type ThirdFlow struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// ThirdFlows reports where passes start and where they land, by pitch
// third. The From counts are attempts per origin third; Flows holds all
// nine origin-to-destination cells, zero-filled, ordered defensive, middle,
// final on both axes.
type ThirdFlows struct {
	FromDefensive int         `json:"from_defensive"`
	FromMiddle    int         `json:"from_middle"`
	FromFinal     int         `json:"from_final"`
	Flows         []ThirdFlow `json:"flows"`
}

var flowThirds = [3]pitch.Third{pitch.ThirdDefensive, pitch.ThirdMiddle, pitch.ThirdFinal}

func flowIndex(t pitch.Third) int {
	switch t {
	case pitch.ThirdDefensive:
		return 0
	case pitch.ThirdMiddle:
		return 1
	case pitch.ThirdFinal:
		return 2
	default:
		return -1
	}
}

// ThirdFlows counts pass origins per third and the flows between thirds.
// A pass with no start coordinate is excluded entirely; one with a start
// but no end counts toward its origin third and no flow cell.
func (c *Catalog) ThirdFlows(player string) ThirdFlows {
	var from [3]int
	var flows [3][3]int
	for _, e := range c.view(player).Rows() {
		origin := flowIndex(pitch.ThirdOf(e.X, c.pitchLength))
		if origin < 0 {
			continue
		}
		from[origin]++
		dest := flowIndex(pitch.ThirdOf(e.PassEndX, c.pitchLength))
		if dest < 0 {
			continue
		}
		flows[origin][dest]++
	}

	out := ThirdFlows{
		FromDefensive: from[0],
		FromMiddle:    from[1],
		FromFinal:     from[2],
		Flows:         make([]ThirdFlow, 0, 9),
	}
	for i, origin := range flowThirds {
		for j, dest := range flowThirds {
			out.Flows = append(out.Flows, ThirdFlow{
				From:  origin.String(),
				To:    dest.String(),
				Count: flows[i][j],
			})
		}
	}
	return out
}

// Pressure.

// PassesPressuredPercentage is the share of passes attempted under pressure.
func (c *Catalog) PassesPressuredPercentage(player string) float64 {
	ds := c.view(player)
	return aggregate.Rate(ds, isPressured)
}

// PressuredPassPercentage is the completion rate under pressure.
func (c *Catalog) PressuredPassPercentage(player string) float64 {
	ds := c.view(player)
	return aggregate.Rate(ds, c.success, aggregate.MaskOf(ds, isPressured))
}

// PressuredPassPercentDifference is pressured completion minus overall
// completion. Defined, as zero, even when both terms have no attempts.
func (c *Catalog) PressuredPassPercentDifference(player string) float64 {
	return c.PressuredPassPercentage(player) - c.PassingPercentage(player)
}

// PressuredPassLength is the mean length of pressured passes.
func (c *Catalog) PressuredPassLength(player string) float64 {
	ds := c.view(player)
	return aggregate.MeanOf(ds, passLength, aggregate.MaskOf(ds, isPressured))
}

// SuccessfulPressuredPassLength is the mean length of completed pressured
// passes.
func (c *Catalog) SuccessfulPressuredPassLength(player string) float64 {
	ds := c.view(player)
	return aggregate.MeanOf(ds, passLength,
		aggregate.MaskOf(ds, isPressured), aggregate.MaskOf(ds, c.success))
}

// PressuredPassLengthDifference is pressured mean length minus overall mean
// length.
func (c *Catalog) PressuredPassLengthDifference(player string) float64 {
	return c.PressuredPassLength(player) - c.PassLength(player)
}

// Deep progressions.

// DeepProgressions covers passes from outside the final third that end in
// the final third or the box.
func (c *Catalog) DeepProgressions(player string) Breakdown {
	return c.breakdown(c.view(player), c.isDeepProgression)
}

// Per-90 variants. All return 0 when the player's minutes are unknown; an
// unknown workload is never silently treated as a full match.

// OpenPlayFinalThirdPassesPer90 normalizes OpenPlayFinalThirdPasses.
func (c *Catalog) OpenPlayFinalThirdPassesPer90(player string) float64 {
	return c.per90(float64(c.OpenPlayFinalThirdPasses(player)), player)
}

// PassesIntoBoxCompletedPer90 normalizes completed passes into the box.
func (c *Catalog) PassesIntoBoxCompletedPer90(player string) float64 {
	return c.per90(float64(c.PassesIntoBox(player).Completed), player)
}

// PassesInsideBoxCompletedPer90 normalizes completed passes inside the box.
func (c *Catalog) PassesInsideBoxCompletedPer90(player string) float64 {
	return c.per90(float64(c.PassesInsideBox(player).Completed), player)
}

// ThroughBallsCompletedPer90 normalizes completed through balls.
func (c *Catalog) ThroughBallsCompletedPer90(player string) float64 {
	return c.per90(float64(c.ThroughBalls(player).Completed), player)
}

// DeepProgressionsAttemptedPer90 normalizes attempted deep progressions.
func (c *Catalog) DeepProgressionsAttemptedPer90(player string) float64 {
	return c.per90(float64(c.DeepProgressions(player).Attempted), player)
}

// DeepProgressionsCompletedPer90 normalizes completed deep progressions.
func (c *Catalog) DeepProgressionsCompletedPer90(player string) float64 {
	return c.per90(float64(c.DeepProgressions(player).Completed), player)
}

func (c *Catalog) per90(value float64, player string) float64 {
	if player == "" && c.kind == ScopePlayer {
		player = c.key
	}
	if player == "" {
		return 0
	}
	return minutes.Per90(value, c.minutes[player])
}

func passLength(e event.Event) *float64 {
	return e.PassLength
}
