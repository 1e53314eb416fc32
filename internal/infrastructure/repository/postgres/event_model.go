package postgres

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

type eventTableModel struct {
	ID         string `db:"id"`
	EventIndex int    `db:"event_index"`
	MatchID    int64  `db:"match_id"`
	MatchName  string `db:"match_name"`
	Team       string `db:"team"`
	Player     string `db:"player"`
	Period     int    `db:"period"`
	Minute     int    `db:"minute"`
	Second     int    `db:"second"`
	EventType  string `db:"event_type"`

	PlayPattern string `db:"play_pattern"`

	X *float64 `db:"x"`
	Y *float64 `db:"y"`

	PassEndX      *float64       `db:"pass_end_x"`
	PassEndY      *float64       `db:"pass_end_y"`
	PassOutcome   sql.NullString `db:"pass_outcome"`
	PassLength    *float64       `db:"pass_length"`
	PassAngle     *float64       `db:"pass_angle"`
	PassHeight    sql.NullString `db:"pass_height"`
	PassRecipient sql.NullString `db:"pass_recipient"`
	PassType      sql.NullString `db:"pass_type"`
	PassTechnique sql.NullString `db:"pass_technique"`

	ShotXG      *float64       `db:"shot_xg"`
	ShotOutcome sql.NullString `db:"shot_outcome"`
	ShotEndX    *float64       `db:"shot_end_x"`
	ShotEndY    *float64       `db:"shot_end_y"`
	ShotEndZ    *float64       `db:"shot_end_z"`

	CardType       string `db:"card_type"`
	SubReplacement string `db:"substitution_replacement"`
	SubOutcome     string `db:"substitution_outcome"`

	// Loosely-encoded boolean columns travel together as one jsonb object.
	Flags []byte `db:"flags"`
}

// eventFlags is the jsonb payload of the flags column. Values keep the raw
// export spelling so truthiness stays a read-time decision.
type eventFlags struct {
	UnderPressure string `json:"under_pressure,omitempty"`
	ThroughBall   string `json:"through_ball,omitempty"`
	GoalAssist    string `json:"goal_assist,omitempty"`
	Cross         string `json:"cross,omitempty"`
	Switch        string `json:"switch,omitempty"`
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func (m eventTableModel) toDomain() (event.Event, error) {
	var flags eventFlags
	if len(m.Flags) > 0 {
		if err := sonic.Unmarshal(m.Flags, &flags); err != nil {
			return event.Event{}, fmt.Errorf("decode flags for event %s: %w", m.ID, err)
		}
	}

	return event.Event{
		ID:        m.ID,
		Index:     m.EventIndex,
		MatchID:   m.MatchID,
		MatchName: m.MatchName,
		Team:      m.Team,
		Player:    m.Player,
		Period:    m.Period,
		Minute:    m.Minute,
		Second:    m.Second,
		Type:      m.EventType,

		PlayPattern:   m.PlayPattern,
		UnderPressure: event.Flag(flags.UnderPressure),

		X: m.X,
		Y: m.Y,

		PassEndX:        m.PassEndX,
		PassEndY:        m.PassEndY,
		PassOutcome:     nullStringPtr(m.PassOutcome),
		PassLength:      m.PassLength,
		PassAngle:       m.PassAngle,
		PassHeight:      nullStringPtr(m.PassHeight),
		PassRecipient:   nullStringPtr(m.PassRecipient),
		PassType:        nullStringPtr(m.PassType),
		PassTechnique:   nullStringPtr(m.PassTechnique),
		PassThroughBall: event.Flag(flags.ThroughBall),
		PassGoalAssist:  event.Flag(flags.GoalAssist),
		PassCross:       event.Flag(flags.Cross),
		PassSwitch:      event.Flag(flags.Switch),

		ShotXG:      m.ShotXG,
		ShotOutcome: nullStringPtr(m.ShotOutcome),
		ShotEndX:    m.ShotEndX,
		ShotEndY:    m.ShotEndY,
		ShotEndZ:    m.ShotEndZ,

		CardType:                m.CardType,
		SubstitutionReplacement: m.SubReplacement,
		SubstitutionOutcome:     m.SubOutcome,
	}, nil
}

func eventToModel(e event.Event) (eventTableModel, error) {
	flags, err := sonic.Marshal(eventFlags{
		UnderPressure: string(e.UnderPressure),
		ThroughBall:   string(e.PassThroughBall),
		GoalAssist:    string(e.PassGoalAssist),
		Cross:         string(e.PassCross),
		Switch:        string(e.PassSwitch),
	})
	if err != nil {
		return eventTableModel{}, fmt.Errorf("encode flags for event %s: %w", e.ID, err)
	}

	return eventTableModel{
		ID:         e.ID,
		EventIndex: e.Index,
		MatchID:    e.MatchID,
		MatchName:  e.MatchName,
		Team:       e.Team,
		Player:     e.Player,
		Period:     e.Period,
		Minute:     e.Minute,
		Second:     e.Second,
		EventType:  e.Type,

		PlayPattern: e.PlayPattern,

		X: e.X,
		Y: e.Y,

		PassEndX:      e.PassEndX,
		PassEndY:      e.PassEndY,
		PassOutcome:   toNullString(e.PassOutcome),
		PassLength:    e.PassLength,
		PassAngle:     e.PassAngle,
		PassHeight:    toNullString(e.PassHeight),
		PassRecipient: toNullString(e.PassRecipient),
		PassType:      toNullString(e.PassType),
		PassTechnique: toNullString(e.PassTechnique),

		ShotXG:      e.ShotXG,
		ShotOutcome: toNullString(e.ShotOutcome),
		ShotEndX:    e.ShotEndX,
		ShotEndY:    e.ShotEndY,
		ShotEndZ:    e.ShotEndZ,

		CardType:       e.CardType,
		SubReplacement: e.SubstitutionReplacement,
		SubOutcome:     e.SubstitutionOutcome,

		Flags: flags,
	}, nil
}
