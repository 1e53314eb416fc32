package event

import "strings"

// Event action types the core cares about. The type column is open-ended;
// anything else passes through untouched.
const (
	TypePass         = "Pass"
	TypeShot         = "Shot"
	TypeStartingXI   = "Starting XI"
	TypeSubstitution = "Substitution"
)

// Card values that end a player's time on the pitch.
const (
	CardRed          = "Red Card"
	CardSecondYellow = "Second Yellow"
)

// Match periods. Period 5 is the penalty shootout and is excluded from
// on-field time accounting.
const (
	PeriodFirstHalf   = 1
	PeriodSecondHalf  = 2
	PeriodFirstExtra  = 3
	PeriodSecondExtra = 4
	PeriodPenalties   = 5
)

// Flag is a loosely-encoded boolean cell as produced by the flattening ETL.
// Real exports populate these columns with true/True/1/yes or leave them
// empty, so truthiness is resolved here rather than at parse time.
type Flag string

var truthyFlagValues = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {}, "t": {},
}

func (f Flag) True() bool {
	_, ok := truthyFlagValues[strings.ToLower(strings.TrimSpace(string(f)))]
	return ok
}

// Event is one flattened match-event row. Optional fields are pointers:
// nil means the column was absent or the cell empty, which is distinct from
// zero. Coordinates in particular must never be coerced to 0.
type Event struct {
	ID        string
	Index     int
	MatchID   int64
	MatchName string
	Team      string
	Player    string
	Period    int
	Minute    int
	Second    int
	Type      string

	PlayPattern   string
	UnderPressure Flag

	X *float64
	Y *float64

	// Pass family.
	PassEndX        *float64
	PassEndY        *float64
	PassOutcome     *string
	PassLength      *float64
	PassAngle       *float64
	PassHeight      *string
	PassRecipient   *string
	PassType        *string
	PassTechnique   *string
	PassThroughBall Flag
	PassGoalAssist  Flag
	PassCross       Flag
	PassSwitch      Flag

	// Shot family.
	ShotXG      *float64
	ShotOutcome *string
	ShotEndX    *float64
	ShotEndY    *float64
	ShotEndZ    *float64

	// Disciplinary and substitution.
	CardType                string
	SubstitutionReplacement string
	SubstitutionOutcome     string
}

// AbsoluteMinute converts the period-relative clock into minutes from
// kickoff using the standard period offsets. Unknown periods map to the
// first-half offset, matching how partially-filled rows are exported.
func (e Event) AbsoluteMinute() float64 {
	return periodOffset(e.Period) + float64(e.Minute) + float64(e.Second)/60.0
}

func periodOffset(period int) float64 {
	switch period {
	case PeriodSecondHalf:
		return 45
	case PeriodFirstExtra:
		return 90
	case PeriodSecondExtra:
		return 105
	case PeriodPenalties:
		return 120
	default:
		return 0
	}
}
