package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pitchmetrics/internal/domain/aggregate"
	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/domain/minutes"
	"github.com/riskibarqy/pitchmetrics/internal/domain/passing"
	"github.com/riskibarqy/pitchmetrics/internal/domain/pitch"
	"github.com/riskibarqy/pitchmetrics/internal/platform/cache"
	"github.com/riskibarqy/pitchmetrics/internal/platform/logging"
)

const (
	defaultFanOutWorkers = 4
	maxLeaderboardSize   = 100
)

// MetricsConfig tunes the metrics service. Zero values fall back to the
// catalog and reconstructor defaults.
type MetricsConfig struct {
	Passing             passing.Config
	DefaultMatchMinutes float64
	SummaryCacheTTL     time.Duration
	FanOutWorkers       int
}

// MetricsService answers pass-metric summaries per scope. The event log is
// reloaded from the repository per request; computed summaries are cached
// because the log only changes when the source export does.
type MetricsService struct {
	repo      event.Repository
	cfg       MetricsConfig
	logger    *logging.Logger
	summaries *cache.Store
}

func NewMetricsService(repo event.Repository, cfg MetricsConfig, logger *logging.Logger) *MetricsService {
	if cfg.FanOutWorkers <= 0 {
		cfg.FanOutWorkers = defaultFanOutWorkers
	}
	return &MetricsService{
		repo:      repo,
		cfg:       cfg,
		logger:    logger,
		summaries: cache.NewStore(cfg.SummaryCacheTTL),
	}
}

// PassingSummary is the full metric block for one scope. Player-scoped
// summaries additionally carry minutes played and the per-90 block.
type PassingSummary struct {
	Scope       string  `json:"scope"`
	Key         string  `json:"key,omitempty"`
	PitchLength float64 `json:"pitch_length"`

	PassesAttempted      int     `json:"passes_attempted"`
	PassesCompleted      int     `json:"passes_completed"`
	PassingPercentage    float64 `json:"passing_pct"`
	PassLength           float64 `json:"pass_length"`
	SuccessfulPassLength float64 `json:"successful_pass_length"`

	LongBalls          int     `json:"long_balls"`
	LongBallPercentage float64 `json:"long_ball_pct"`
	OpenPlayPasses     int     `json:"open_play_passes"`

	PassesIntoBox         passing.Breakdown `json:"passes_into_box"`
	OpenPlayPassesIntoBox passing.Breakdown `json:"open_play_passes_into_box"`
	PassesInsideBox       passing.Breakdown `json:"passes_inside_box"`
	ThroughBalls          passing.Breakdown `json:"through_balls"`

	FinalThirdPasses         int `json:"final_third_passes"`
	OpenPlayFinalThirdPasses int `json:"open_play_final_third_passes"`

	Direction           passing.DirectionBreakdown `json:"direction"`
	FinalThirdDirection passing.DirectionBreakdown `json:"final_third_direction"`
	ThirdFlows          passing.ThirdFlows         `json:"third_flows"`

	PassesPressuredPercentage      float64 `json:"passes_pressured_pct"`
	PressuredPassPercentage        float64 `json:"pressured_pass_pct"`
	PressuredPassPercentDifference float64 `json:"pressured_pass_pct_diff"`
	PressuredPassLength            float64 `json:"pressured_pass_length"`
	SuccessfulPressuredPassLength  float64 `json:"successful_pressured_pass_length"`
	PressuredPassLengthDifference  float64 `json:"pressured_pass_length_diff"`

	DeepProgressions passing.Breakdown `json:"deep_progressions"`

	MinutesPlayed float64       `json:"minutes_played,omitempty"`
	Per90         *PassingPer90 `json:"per_90,omitempty"`
}

// PassingPer90 is the minute-normalized block. All entries are 0 when the
// player's minutes could not be reconstructed.
type PassingPer90 struct {
	OpenPlayFinalThirdPasses  float64 `json:"open_play_final_third_passes"`
	PassesIntoBoxCompleted    float64 `json:"passes_into_box_completed"`
	PassesInsideBoxCompleted  float64 `json:"passes_inside_box_completed"`
	ThroughBallsCompleted     float64 `json:"through_balls_completed"`
	DeepProgressionsAttempted float64 `json:"deep_progressions_attempted"`
	DeepProgressionsCompleted float64 `json:"deep_progressions_completed"`
}

// Leaderboards bundles the competition-wide ranking tables.
type Leaderboards struct {
	TopPassers             aggregate.Table `json:"top_passers"`
	TopAssisters           aggregate.Table `json:"top_assisters"`
	TopThroughBallCreators aggregate.Table `json:"top_through_ball_creators"`
	TopDeepProgressors     aggregate.Table `json:"top_deep_progressors"`
}

func (s *MetricsService) dataset(ctx context.Context) (event.Dataset, error) {
	rows, err := s.repo.ListEvents(ctx)
	if err != nil {
		return event.Dataset{}, fmt.Errorf("list events: %w", err)
	}
	return event.NewDataset(rows), nil
}

// CompetitionSummary covers every row in the event log.
func (s *MetricsService) CompetitionSummary(ctx context.Context) (PassingSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.CompetitionSummary")
	defer span.End()

	value, err := s.summaries.GetOrLoad(ctx, "summary:competition", func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}
		return s.summarize(passing.NewCompetition(ds, s.cfg.Passing)), nil
	})
	if err != nil {
		return PassingSummary{}, err
	}
	return value.(PassingSummary), nil
}

// TeamSummary covers one team's rows across all matches.
func (s *MetricsService) TeamSummary(ctx context.Context, team string) (PassingSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.TeamSummary")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return PassingSummary{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	value, err := s.summaries.GetOrLoad(ctx, "summary:team:"+team, func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}
		scoped := ds.ByTeam(team)
		if scoped.Len() == 0 {
			return nil, fmt.Errorf("%w: team=%s", ErrNotFound, team)
		}
		return s.summarize(passing.NewTeam(ds, team, s.cfg.Passing)), nil
	})
	if err != nil {
		return PassingSummary{}, err
	}
	return value.(PassingSummary), nil
}

// AllTeamSummaries computes every team's summary on a bounded worker pool.
// Each worker builds its own catalog over its own filtered copy; the result
// keeps the sorted team order regardless of worker scheduling.
func (s *MetricsService) AllTeamSummaries(ctx context.Context) ([]PassingSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.AllTeamSummaries")
	defer span.End()

	value, err := s.summaries.GetOrLoad(ctx, "summary:teams", func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}

		teams := ds.Teams()
		out := make([]PassingSummary, len(teams))

		pool, err := ants.NewPool(s.cfg.FanOutWorkers)
		if err != nil {
			return nil, fmt.Errorf("create worker pool: %w", err)
		}
		defer pool.Release()

		tasks := make([]func(), len(teams))
		for i, team := range teams {
			i, team := i, team
			tasks[i] = func() {
				out[i] = s.summarize(passing.NewTeam(ds, team, s.cfg.Passing))
			}
		}
		if err := fanOut(pool, tasks); err != nil {
			return nil, fmt.Errorf("submit team summary: %w", err)
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]PassingSummary), nil
}

// fanOut submits every task to the pool and waits for all submitted tasks,
// including when a later submission is rejected. Tasks that never made it
// into the pool are dropped, not run inline.
func fanOut(pool *ants.Pool, tasks []func()) error {
	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			task()
		}); err != nil {
			workers.Done()
			workers.Wait()
			return err
		}
	}
	workers.Wait()
	return nil
}

// MatchSummary covers one match, addressed by numeric id or match name.
func (s *MetricsService) MatchSummary(ctx context.Context, key string) (PassingSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.MatchSummary")
	defer span.End()

	key = strings.TrimSpace(key)
	if key == "" {
		return PassingSummary{}, fmt.Errorf("%w: match key is required", ErrInvalidInput)
	}

	value, err := s.summaries.GetOrLoad(ctx, "summary:match:"+key, func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}
		if ds.ByMatchKey(key).Len() == 0 {
			return nil, fmt.Errorf("%w: match=%s", ErrNotFound, key)
		}
		return s.summarize(passing.NewMatch(ds, key, s.cfg.Passing)), nil
	})
	if err != nil {
		return PassingSummary{}, err
	}
	return value.(PassingSummary), nil
}

// PlayerSummary covers one player and adds minutes played plus the per-90
// block.
func (s *MetricsService) PlayerSummary(ctx context.Context, player string) (PassingSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.PlayerSummary")
	defer span.End()

	player = strings.TrimSpace(player)
	if player == "" {
		return PassingSummary{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}

	value, err := s.summaries.GetOrLoad(ctx, "summary:player:"+player, func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}
		if ds.ByPlayer(player).Len() == 0 {
			return nil, fmt.Errorf("%w: player=%s", ErrNotFound, player)
		}

		catalog := passing.NewPlayer(ds, player, s.cfg.Passing)
		played := s.minutesPlayed(ctx, ds)
		catalog.SetMinutes(played)

		summary := s.summarize(catalog)
		summary.MinutesPlayed = played[player]
		summary.Per90 = &PassingPer90{
			OpenPlayFinalThirdPasses:  catalog.OpenPlayFinalThirdPassesPer90(""),
			PassesIntoBoxCompleted:    catalog.PassesIntoBoxCompletedPer90(""),
			PassesInsideBoxCompleted:  catalog.PassesInsideBoxCompletedPer90(""),
			ThroughBallsCompleted:     catalog.ThroughBallsCompletedPer90(""),
			DeepProgressionsAttempted: catalog.DeepProgressionsAttemptedPer90(""),
			DeepProgressionsCompleted: catalog.DeepProgressionsCompletedPer90(""),
		}
		return summary, nil
	})
	if err != nil {
		return PassingSummary{}, err
	}
	return value.(PassingSummary), nil
}

// Leaderboards computes the competition ranking tables with n rows each.
func (s *MetricsService) Leaderboards(ctx context.Context, n int) (Leaderboards, error) {
	ctx, span := startUsecaseSpan(ctx, "MetricsService.Leaderboards")
	defer span.End()

	if n <= 0 || n > maxLeaderboardSize {
		return Leaderboards{}, fmt.Errorf("%w: n must be between 1 and %d", ErrInvalidInput, maxLeaderboardSize)
	}

	value, err := s.summaries.GetOrLoad(ctx, fmt.Sprintf("leaderboards:%d", n), func(ctx context.Context) (any, error) {
		ds, err := s.dataset(ctx)
		if err != nil {
			return nil, err
		}
		catalog := passing.NewCompetition(ds, s.cfg.Passing)
		return Leaderboards{
			TopPassers:             catalog.TopPassers(n),
			TopAssisters:           catalog.TopAssisters(n),
			TopThroughBallCreators: catalog.TopThroughBallCreators(n),
			TopDeepProgressors:     catalog.TopDeepProgressors(n),
		}, nil
	})
	if err != nil {
		return Leaderboards{}, err
	}
	return value.(Leaderboards), nil
}

func (s *MetricsService) minutesPlayed(ctx context.Context, ds event.Dataset) map[string]float64 {
	rec := minutes.Reconstructor{
		MatchMinutesFallback: s.cfg.DefaultMatchMinutes,
		Logger:               s.logger,
	}
	value, err := s.summaries.GetOrLoad(ctx, "minutes", func(context.Context) (any, error) {
		return rec.Compute(ds), nil
	})
	if err != nil {
		return nil
	}
	return value.(map[string]float64)
}

func (s *MetricsService) summarize(catalog *passing.Catalog) PassingSummary {
	kind, key := catalog.Scope()
	return PassingSummary{
		Scope:       string(kind),
		Key:         key,
		PitchLength: catalog.PitchLength(),

		PassesAttempted:      catalog.PassesAttempted(""),
		PassesCompleted:      catalog.PassesCompleted(""),
		PassingPercentage:    catalog.PassingPercentage(""),
		PassLength:           catalog.PassLength(""),
		SuccessfulPassLength: catalog.SuccessfulPassLength(""),

		LongBalls:          catalog.LongBalls(""),
		LongBallPercentage: catalog.LongBallPercentage(""),
		OpenPlayPasses:     catalog.OpenPlayPasses(""),

		PassesIntoBox:         catalog.PassesIntoBox(""),
		OpenPlayPassesIntoBox: catalog.OpenPlayPassesIntoBox(""),
		PassesInsideBox:       catalog.PassesInsideBox(""),
		ThroughBalls:          catalog.ThroughBalls(""),

		FinalThirdPasses:         catalog.FinalThirdPasses(""),
		OpenPlayFinalThirdPasses: catalog.OpenPlayFinalThirdPasses(""),

		Direction:           catalog.DirectionSplit(""),
		FinalThirdDirection: catalog.DirectionSplitByThird(pitch.ThirdFinal, ""),
		ThirdFlows:          catalog.ThirdFlows(""),

		PassesPressuredPercentage:      catalog.PassesPressuredPercentage(""),
		PressuredPassPercentage:        catalog.PressuredPassPercentage(""),
		PressuredPassPercentDifference: catalog.PressuredPassPercentDifference(""),
		PressuredPassLength:            catalog.PressuredPassLength(""),
		SuccessfulPressuredPassLength:  catalog.SuccessfulPressuredPassLength(""),
		PressuredPassLengthDifference:  catalog.PressuredPassLengthDifference(""),

		DeepProgressions: catalog.DeepProgressions(""),
	}
}
