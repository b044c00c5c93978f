package onesignal

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/diskichat-admin/internal/platform/curl"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/platform/resilience"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL     = "https://onesignal.com"
	notificationsPath  = "/api/v1/notifications"
	defaultTimeout     = 10 * time.Second
	broadcastSegment   = "All"
	broadcastLanguage  = "en"
	maxResponsePreview = 512
)

var errOneSignalTransient = crerr.New("onesignal transient failure")

type ClientConfig struct {
	BaseURL        string
	AppID          string
	RESTAPIKey     string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// HTTPClient lets tests inject a client; nil builds a pooled fasthttp client.
	HTTPClient *fasthttp.Client
}

// Client sends broadcast pushes through the OneSignal REST API.
type Client struct {
	http       *fasthttp.Client
	endpoint   string
	appID      string
	restAPIKey string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

var _ usecase.PushSender = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &fasthttp.Client{
			Name:                "diskichat-admin",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	return &Client{
		http:       client,
		endpoint:   baseURL + notificationsPath,
		appID:      strings.TrimSpace(cfg.AppID),
		restAPIKey: strings.TrimSpace(cfg.RESTAPIKey),
		timeout:    timeout,
		logger:     logger.Named("onesignal"),
		breaker:    resilience.NewNamedCircuitBreaker("onesignal", cfg.CircuitBreaker),
	}
}

type notificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludedSegments []string          `json:"included_segments"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
}

type notificationResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
	Errors     any    `json:"errors"`
}

func (c *Client) Broadcast(ctx context.Context, msg usecase.PushMessage) (usecase.PushResult, error) {
	if c.appID == "" || c.restAPIKey == "" {
		return usecase.PushResult{}, fmt.Errorf("%w: push provider is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "onesignal circuit breaker rejected request", "state", c.breaker.State())
		return usecase.PushResult{}, fmt.Errorf("%w: push provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	body, err := sonic.Marshal(notificationRequest{
		AppID:            c.appID,
		IncludedSegments: []string{broadcastSegment},
		Headings:         map[string]string{broadcastLanguage: msg.Title},
		Contents:         map[string]string{broadcastLanguage: msg.Body},
	})
	if err != nil {
		return usecase.PushResult{}, crerr.Wrap(err, "marshal notification payload")
	}

	preview := curl.Preview(fasthttp.MethodPost, c.endpoint,
		[]string{"Authorization: Basic ***", "Content-Type: application/json"}, string(body), "broadcast")
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("onesignal.endpoint", c.endpoint),
			attribute.String("onesignal.request_curl_preview", preview),
		)
	}
	c.logger.DebugContext(ctx, "onesignal broadcast request", "curl_preview", preview)

	status, raw, err := c.post(ctx, body)
	if err == nil {
		err = classifyStatus(status, raw)
	}
	var result usecase.PushResult
	if err == nil {
		result, err = decodeResult(raw)
	}
	c.breaker.Record(err, isTransient)
	if err != nil {
		c.logger.WarnContext(ctx, "onesignal broadcast failed", "status", status, "error", err)
		return usecase.PushResult{}, err
	}

	c.logger.InfoContext(ctx, "onesignal broadcast sent", "notification_id", result.NotificationID, "recipients", result.Recipients)
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.restAPIKey)
	req.SetBodyRaw(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("%w: send notification: %v", errOneSignalTransient, err)
	}

	raw := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), raw, nil
}

func classifyStatus(status int, raw []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	text := curl.Truncate(strings.TrimSpace(string(raw)), maxResponsePreview)
	if status == fasthttp.StatusTooManyRequests || status == fasthttp.StatusRequestTimeout || status >= 500 {
		return fmt.Errorf("%w: onesignal status=%d body=%s", errOneSignalTransient, status, text)
	}
	return fmt.Errorf("onesignal status=%d body=%s", status, text)
}

// decodeResult treats a response with provider errors and no notification id as a failure.
func decodeResult(raw []byte) (usecase.PushResult, error) {
	var decoded notificationResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return usecase.PushResult{}, fmt.Errorf("decode onesignal response: %w", err)
	}
	if msg := describeErrors(decoded.Errors); msg != "" && decoded.ID == "" {
		return usecase.PushResult{}, fmt.Errorf("onesignal rejected notification: %s", msg)
	}
	if decoded.ID == "" {
		return usecase.PushResult{}, fmt.Errorf("onesignal response has no notification id")
	}
	return usecase.PushResult{NotificationID: decoded.ID, Recipients: decoded.Recipients}, nil
}

func describeErrors(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", k, t[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errOneSignalTransient)
}
