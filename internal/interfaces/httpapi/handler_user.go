package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	if h.users == nil {
		writeError(ctx, w, unavailable("user service"))
		return
	}

	items, err := h.users.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]userDTO, 0, len(items))
	for _, item := range items {
		out = append(out, userToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUser")
	defer span.End()

	if h.users == nil {
		writeError(ctx, w, unavailable("user service"))
		return
	}

	item, err := h.users.Get(ctx, strings.TrimSpace(r.PathValue("userID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserStatus")
	defer span.End()

	if h.users == nil {
		writeError(ctx, w, unavailable("user service"))
		return
	}

	userID := strings.TrimSpace(r.PathValue("userID"))
	var req userStatusRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.users.SetStatus(ctx, usecase.SetUserStatusInput{
		Actor:  actorFromContext(ctx),
		UserID: userID,
		Status: req.Status,
		Reason: req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set user status failed", "user_id", userID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(item))
}

func (h *Handler) GetUserModerationHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserModerationHistory")
	defer span.End()

	if h.users == nil {
		writeError(ctx, w, unavailable("user service"))
		return
	}

	items, err := h.users.History(ctx, strings.TrimSpace(r.PathValue("userID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]moderationEventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, moderationEventToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
