package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/pitchmetrics/internal/usecase"
)

const defaultLeaderboardSize = 10

type leaderboardQuery struct {
	Size int `validate:"gte=1,lte=100"`
}

func (h *Handler) GetCompetitionPassing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionPassing")
	defer span.End()

	summary, err := h.metricsService.CompetitionSummary(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "competition passing summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) ListTeamPassing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPassing")
	defer span.End()

	summaries, err := h.metricsService.AllTeamSummaries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "team passing summaries failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaries)
}

func (h *Handler) GetTeamPassing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPassing")
	defer span.End()

	team := strings.TrimSpace(r.PathValue("team"))
	summary, err := h.metricsService.TeamSummary(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "team passing summary failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetMatchPassing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPassing")
	defer span.End()

	matchKey := strings.TrimSpace(r.PathValue("matchKey"))
	summary, err := h.metricsService.MatchSummary(ctx, matchKey)
	if err != nil {
		h.logger.WarnContext(ctx, "match passing summary failed", "match_key", matchKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetPlayerPassing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerPassing")
	defer span.End()

	player := strings.TrimSpace(r.PathValue("player"))
	summary, err := h.metricsService.PlayerSummary(ctx, player)
	if err != nil {
		h.logger.WarnContext(ctx, "player passing summary failed", "player", player, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboards")
	defer span.End()

	size := defaultLeaderboardSize
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: n must be an integer", usecase.ErrInvalidInput))
			return
		}
		size = v
	}

	if err := h.validateRequest(ctx, leaderboardQuery{Size: size}); err != nil {
		writeError(ctx, w, err)
		return
	}

	boards, err := h.metricsService.Leaderboards(ctx, size)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboards failed", "n", size, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boards)
}
