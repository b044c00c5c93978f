package httpapi

import (
	"net/http"
)

func (h *Handler) BroadcastNotification(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BroadcastNotification")
	defer span.End()

	if h.notifications == nil {
		writeError(ctx, w, unavailable("notification service"))
		return
	}

	var req broadcastRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.notifications.Broadcast(ctx, req.Title, req.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "broadcast notification failed", "actor", actorFromContext(ctx), "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "broadcast notification sent", "actor", actorFromContext(ctx), "notification_id", result.NotificationID)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAnalyticsSummary")
	defer span.End()

	if h.analytics == nil {
		writeError(ctx, w, unavailable("analytics service"))
		return
	}

	summary, err := h.analytics.Summary(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analyticsToDTO(summary))
}
