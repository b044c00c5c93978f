package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// Services groups the use cases the HTTP layer exposes. Nil services answer 503.
type Services struct {
	Matches       *usecase.MatchService
	LiveMatches   *usecase.LiveMatchService
	Importer      *usecase.FixtureImportService
	Teams         *usecase.TeamService
	Competitions  *usecase.CompetitionService
	Users         *usecase.UserService
	Notifications *usecase.NotificationService
	Analytics     *usecase.AnalyticsService
	SyncRuns      *usecase.SyncRunService
	Jobs          *usecase.JobOrchestratorService
}

type Handler struct {
	matches       *usecase.MatchService
	liveMatches   *usecase.LiveMatchService
	importer      *usecase.FixtureImportService
	teams         *usecase.TeamService
	competitions  *usecase.CompetitionService
	users         *usecase.UserService
	notifications *usecase.NotificationService
	analytics     *usecase.AnalyticsService
	syncRuns      *usecase.SyncRunService
	jobs          *usecase.JobOrchestratorService
	logger        *logging.Logger
	validator     *validator.Validate
	presence      presenceStreamConfig
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matches:       services.Matches,
		liveMatches:   services.LiveMatches,
		importer:      services.Importer,
		teams:         services.Teams,
		competitions:  services.Competitions,
		users:         services.Users,
		notifications: services.Notifications,
		analytics:     services.Analytics,
		syncRuns:      services.SyncRuns,
		jobs:          services.Jobs,
		logger:        logger.Named("httpapi"),
		validator:     validator.New(),
		presence:      defaultPresenceStreamConfig(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a strict JSON body; an empty body leaves dst untouched when allowEmpty.
func (h *Handler) decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := strictJSON.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func unavailable(name string) error {
	return fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
