package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerMatchRoutes(mux, handler, verifier)
	registerFixtureRoutes(mux, handler, verifier)
	registerCatalogRoutes(mux, handler, verifier)
	registerUserRoutes(mux, handler, verifier)
	registerEngagementRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLiveJob)))
	mux.Handle("POST /v1/internal/jobs/reconcile-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconcileLiveJob)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("PUT /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("PUT /v1/matches/{matchID}/match-of-the-day", RequireAuth(verifier, http.HandlerFunc(handler.SetMatchOfTheDay)))
	mux.Handle("GET /v1/matches/{matchID}/details", RequireAuth(verifier, http.HandlerFunc(handler.GetMatchDetails)))
	mux.Handle("GET /v1/matches/{matchID}/banter/presence", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchPresence)))
	mux.Handle("GET /v1/matches/{matchID}/banter/presence/stream", RequireAuthOrQuery(verifier, http.HandlerFunc(handler.StreamMatchPresence)))
	mux.Handle("GET /v1/live-matches", RequireAuth(verifier, http.HandlerFunc(handler.ListLiveMatches)))
	mux.Handle("POST /v1/live-matches/reconcile", RequireAuth(verifier, http.HandlerFunc(handler.ReconcileLiveMatches)))
}

func registerFixtureRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/competitions/{competitionID}/fixtures", RequireAuth(verifier, http.HandlerFunc(handler.ListUpcomingFixtures)))
	mux.Handle("POST /v1/fixtures/import", RequireAuth(verifier, http.HandlerFunc(handler.ImportFixtures)))
	mux.Handle("GET /v1/sync-runs/{runID}", RequireAuth(verifier, http.HandlerFunc(handler.GetSyncRun)))
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("POST /v1/teams/sync", RequireAuth(verifier, http.HandlerFunc(handler.SyncTeams)))
	mux.Handle("GET /v1/competitions", RequireAuth(verifier, http.HandlerFunc(handler.ListCompetitions)))
	mux.Handle("POST /v1/competitions/sync", RequireAuth(verifier, http.HandlerFunc(handler.SyncCompetitions)))
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/users", RequireAuth(verifier, http.HandlerFunc(handler.ListUsers)))
	mux.Handle("GET /v1/users/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.GetUser)))
	mux.Handle("PUT /v1/users/{userID}/status", RequireAuth(verifier, http.HandlerFunc(handler.SetUserStatus)))
	mux.Handle("GET /v1/users/{userID}/moderation-history", RequireAuth(verifier, http.HandlerFunc(handler.GetUserModerationHistory)))
}

func registerEngagementRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/notifications/broadcast", RequireAuth(verifier, http.HandlerFunc(handler.BroadcastNotification)))
	mux.Handle("GET /v1/analytics/summary", RequireAuth(verifier, http.HandlerFunc(handler.GetAnalyticsSummary)))
}
