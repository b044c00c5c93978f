package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	items, err := h.matches.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	item, err := h.matches.Get(ctx, strings.TrimSpace(r.PathValue("matchID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	var req matchRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matches.Create(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "home", req.HomeTeam, "away", req.AwayTeam, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchWriteToDTO(result))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req matchRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matches.Update(ctx, matchID, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchWriteToDTO(result))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.matches.Delete(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": matchID})
}

func (h *Handler) SetMatchOfTheDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchOfTheDay")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	var req matchOfTheDayRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matches.SetMatchOfTheDay(ctx, strings.TrimSpace(r.PathValue("matchID")), *req.IsMatchOfTheDay)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetMatchDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchDetails")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	details, err := h.matches.Details(ctx, strings.TrimSpace(r.PathValue("matchID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailsToDTO(details))
}

func (h *Handler) ListMatchPresence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPresence")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	items, err := h.matches.Presence(ctx, strings.TrimSpace(r.PathValue("matchID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, presenceToDTO(items))
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	if h.liveMatches == nil {
		writeError(ctx, w, unavailable("live match service"))
		return
	}

	items, err := h.liveMatches.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) ReconcileLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileLiveMatches")
	defer span.End()

	if h.liveMatches == nil {
		writeError(ctx, w, unavailable("live match service"))
		return
	}

	result, err := h.liveMatches.Reconcile(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reconcile live matches failed", "actor", actorFromContext(ctx), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

