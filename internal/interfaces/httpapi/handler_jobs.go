package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

// upstashMessageIDHeader is set by QStash on every delivery.
const upstashMessageIDHeader = "Upstash-Message-Id"

type jobRunner func(ctx context.Context, input usecase.JobRunInput) (usecase.JobRunResult, error)

func (h *Handler) RunSyncLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLiveJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, unavailable("job orchestrator"))
		return
	}
	h.runJob(ctx, w, r, usecase.JobSyncLive, h.jobs.RunSyncLive)
}

func (h *Handler) RunReconcileLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcileLiveJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, unavailable("job orchestrator"))
		return
	}
	h.runJob(ctx, w, r, usecase.JobReconcileLive, h.jobs.RunReconcile)
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, unavailable("job orchestrator"))
		return
	}

	result, err := h.jobs.Bootstrap(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run bootstrap job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) runJob(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, run jobRunner) {
	var req internalJobRequest
	if err := h.decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.JobRunInput{
		DispatchID: dispatchIDFromRequest(r, req),
		Force:      req.Force,
	}
	result, err := run(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "run internal job failed",
			"job_name", name,
			"dispatch_id", input.DispatchID,
			"force", input.Force,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// dispatchIDFromRequest prefers the id carried in the body, which is the dedup key the
// job was enqueued with, over the queue's own message id.
func dispatchIDFromRequest(r *http.Request, req internalJobRequest) string {
	if id := strings.TrimSpace(req.DispatchID); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get(upstashMessageIDHeader))
}
