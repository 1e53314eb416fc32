package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerMetricsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competition/passing", handler.GetCompetitionPassing)
	mux.HandleFunc("GET /v1/teams/passing", handler.ListTeamPassing)
	mux.HandleFunc("GET /v1/teams/{team}/passing", handler.GetTeamPassing)
	mux.HandleFunc("GET /v1/matches/{matchKey}/passing", handler.GetMatchPassing)
	mux.HandleFunc("GET /v1/players/{player}/passing", handler.GetPlayerPassing)
	mux.HandleFunc("GET /v1/leaderboards", handler.GetLeaderboards)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
}
