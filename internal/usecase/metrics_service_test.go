package usecase

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
	"github.com/riskibarqy/pitchmetrics/internal/infrastructure/repository/memory"
)

type failingEventRepository struct{}

func (failingEventRepository) ListEvents(context.Context) ([]event.Event, error) {
	return nil, errors.New("storage offline")
}

func newSeededMetricsService() *MetricsService {
	repo := memory.NewEventRepository(memory.SeedEvents())
	return NewMetricsService(repo, MetricsConfig{}, nil)
}

func TestMetricsService_CompetitionSummary(t *testing.T) {
	svc := newSeededMetricsService()

	summary, err := svc.CompetitionSummary(t.Context())
	require.NoError(t, err)

	require.Equal(t, "competition", summary.Scope)
	require.Empty(t, summary.Key)
	require.Equal(t, 120.0, summary.PitchLength)
	require.Greater(t, summary.PassesAttempted, 0)
	require.Greater(t, summary.PassesCompleted, 0)
	require.LessOrEqual(t, summary.PassesCompleted, summary.PassesAttempted)
	require.InDelta(t,
		float64(summary.PassesCompleted)/float64(summary.PassesAttempted),
		summary.PassingPercentage, 1e-9)
	require.Equal(t, 2, summary.ThroughBalls.Attempted)
}

func TestMetricsService_TeamSummary(t *testing.T) {
	svc := newSeededMetricsService()

	summary, err := svc.TeamSummary(t.Context(), memory.SeedTeamGaruda)
	require.NoError(t, err)
	require.Equal(t, "team", summary.Scope)
	require.Equal(t, memory.SeedTeamGaruda, summary.Key)
	require.Greater(t, summary.PassesAttempted, 0)

	_, err = svc.TeamSummary(t.Context(), "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.TeamSummary(t.Context(), "No Such Club")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMetricsService_AllTeamSummaries(t *testing.T) {
	svc := newSeededMetricsService()

	summaries, err := svc.AllTeamSummaries(t.Context())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Sorted team order, independent of worker scheduling.
	require.Equal(t, memory.SeedTeamGaruda, summaries[0].Key)
	require.Equal(t, memory.SeedTeamPhoenix, summaries[1].Key)
	require.Equal(t, memory.SeedTeamTigers, summaries[2].Key)

	single, err := svc.TeamSummary(t.Context(), memory.SeedTeamPhoenix)
	require.NoError(t, err)
	require.Equal(t, single, summaries[1])
}

func TestFanOutWaitsForSubmittedTasksOnRejection(t *testing.T) {
	// A saturated non-blocking pool rejects the second submission; fanOut
	// must still wait for the first task before returning the error.
	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	require.NoError(t, err)
	defer pool.Release()

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	tasks := []func(){
		func() {
			close(started)
			<-release
			finished.Store(true)
		},
		func() {},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- fanOut(pool, tasks) }()

	<-started
	close(release)
	require.Error(t, <-errCh)
	require.True(t, finished.Load())
}

func TestMetricsService_MatchSummaryByIDAndName(t *testing.T) {
	svc := newSeededMetricsService()

	byID, err := svc.MatchSummary(t.Context(), "950101")
	require.NoError(t, err)
	byName, err := svc.MatchSummary(t.Context(), memory.SeedMatchOneName)
	require.NoError(t, err)

	require.Equal(t, byID.PassesAttempted, byName.PassesAttempted)
	require.InDelta(t, byID.PassingPercentage, byName.PassingPercentage, 1e-9)

	_, err = svc.MatchSummary(t.Context(), "999999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMetricsService_PlayerSummary(t *testing.T) {
	svc := newSeededMetricsService()

	summary, err := svc.PlayerSummary(t.Context(), "Eko Saputra")
	require.NoError(t, err)
	require.Equal(t, "player", summary.Scope)

	// Substituted off at 65'; the match clock runs to 93'.
	require.InDelta(t, 65.0, summary.MinutesPlayed, 1e-9)
	require.NotNil(t, summary.Per90)
	require.InDelta(t, 90.0/65.0, summary.Per90.OpenPlayFinalThirdPasses, 1e-9)

	_, err = svc.PlayerSummary(t.Context(), "Ghost Player")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMetricsService_Leaderboards(t *testing.T) {
	svc := newSeededMetricsService()

	_, err := svc.Leaderboards(t.Context(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Leaderboards(t.Context(), maxLeaderboardSize+1)
	require.ErrorIs(t, err, ErrInvalidInput)

	boards, err := svc.Leaderboards(t.Context(), 3)
	require.NoError(t, err)
	require.Len(t, boards.TopPassers.Rows, 3)
	require.Equal(t, "Rahmat Hidayat", boards.TopPassers.Rows[0].Key)
	require.Equal(t, 4, boards.TopPassers.Rows[0].Value)
	require.NotEmpty(t, boards.TopAssisters.Rows)
	require.Equal(t, "Bima Nugroho", boards.TopAssisters.Rows[0].Key)
}

func TestMetricsService_SummariesAreCached(t *testing.T) {
	repo := memory.NewEventRepository(memory.SeedEvents())
	svc := NewMetricsService(repo, MetricsConfig{}, nil)

	before, err := svc.CompetitionSummary(t.Context())
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceEvents(t.Context(), nil))

	after, err := svc.CompetitionSummary(t.Context())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestMetricsService_RepositoryFailure(t *testing.T) {
	svc := NewMetricsService(failingEventRepository{}, MetricsConfig{}, nil)

	_, err := svc.CompetitionSummary(t.Context())
	require.Error(t, err)
	require.Contains(t, err.Error(), "list events")
}

func TestMetricsService_EmptyLogYieldsTypedZeros(t *testing.T) {
	svc := NewMetricsService(memory.NewEventRepository(nil), MetricsConfig{}, nil)

	summary, err := svc.CompetitionSummary(t.Context())
	require.NoError(t, err)
	require.Zero(t, summary.PassesAttempted)
	require.Zero(t, summary.PassingPercentage)
	require.False(t, math.IsNaN(summary.PressuredPassPercentDifference))
}
