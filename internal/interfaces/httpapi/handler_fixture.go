package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const defaultUpcomingFixtures = 20

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	if h.importer == nil {
		writeError(ctx, w, unavailable("fixture importer"))
		return
	}

	competitionID, err := pathInt64(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	next, err := queryInt(r, "next", defaultUpcomingFixtures)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.importer.ListUpcoming(ctx, competitionID, next)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "competition_id", competitionID, "next", next, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]fixtureSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fixtureSummaryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// ImportFixtures always answers 200 with per-item results; partial failure is reported, not raised.
func (h *Handler) ImportFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportFixtures")
	defer span.End()

	if h.importer == nil {
		writeError(ctx, w, unavailable("fixture importer"))
		return
	}

	var req importRequest
	if err := h.decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summaries := make([]usecase.ExternalFixture, 0, len(req.Summaries))
	for _, item := range req.Summaries {
		summaries = append(summaries, item.toExternal())
	}

	result, err := h.importer.ImportBatch(ctx, usecase.ImportBatchInput{
		FixtureIDs: req.FixtureIDs,
		Summaries:  summaries,
		Trigger:    "admin:" + actorFromContext(ctx),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import fixtures failed", "count", len(req.FixtureIDs), "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.Failed > 0 {
		h.logger.WarnContext(ctx, "fixture import finished with failures",
			"run_id", result.RunID,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetSyncRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncRun")
	defer span.End()

	if h.syncRuns == nil {
		writeError(ctx, w, unavailable("sync run ledger"))
		return
	}

	run, err := h.syncRuns.Get(ctx, strings.TrimSpace(r.PathValue("runID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}
