package httpapi

import (
	"net/http"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	if h.teams == nil {
		writeError(ctx, w, unavailable("team service"))
		return
	}

	items, err := h.teams.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SyncTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTeams")
	defer span.End()

	if h.teams == nil {
		writeError(ctx, w, unavailable("team service"))
		return
	}

	var req teamSyncRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teams.Sync(ctx, req.CompetitionID, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "sync teams failed", "competition_id", req.CompetitionID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	if h.competitions == nil {
		writeError(ctx, w, unavailable("competition service"))
		return
	}

	items, err := h.competitions.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// SyncCompetitions accepts an empty body, which syncs the default id set.
func (h *Handler) SyncCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncCompetitions")
	defer span.End()

	if h.competitions == nil {
		writeError(ctx, w, unavailable("competition service"))
		return
	}

	var req competitionSyncRequest
	if err := h.decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.competitions.Sync(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "sync competitions failed", "ids", req.IDs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
