package httpapi

import (
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
)

type RouterConfig struct {
	Handler          *Handler
	Verifier         TokenVerifier
	Logger           *logging.Logger
	ServiceName      string
	CORSOrigins      []string
	InternalJobToken string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "diskichat-admin"
	}

	cfg.Handler.allowStreamOrigins(cfg.CORSOrigins)

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg.Handler, cfg.MetricsHandler)
	registerAuthorizedRoutes(mux, cfg.Handler, cfg.Verifier)
	registerInternalJobRoutes(mux, cfg.Handler, cfg.InternalJobToken)

	return RequestTracing(serviceName, RequestLogging(logger, CORS(cfg.CORSOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
