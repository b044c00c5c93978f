package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/diskichat-admin/internal/platform/cache"
	"github.com/riskibarqy/diskichat-admin/internal/platform/logging"
	"github.com/riskibarqy/diskichat-admin/internal/platform/resilience"
	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

const (
	defaultBaseURL      = "https://v3.football.api-sports.io"
	defaultHost         = "v3.football.api-sports.io"
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 6 << 20
	providerName        = "apifootball"
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

// RequestRecorder observes every provider round trip.
type RequestRecorder interface {
	RecordProviderRequest(ctx context.Context, provider, endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Host           string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Cache holds raw upcoming-fixture listings for FixtureCacheTTL; nil disables it.
	Cache           cache.ResponseCache
	FixtureCacheTTL time.Duration
	Recorder        RequestRecorder
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	host         string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight[[]byte]
	cache        cache.ResponseCache
	fixtureTTL   time.Duration
	recorder     RequestRecorder
}

var _ usecase.MatchSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		host:         host,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger.Named(providerName),
		breaker:      resilience.NewNamedCircuitBreaker(providerName, cfg.CircuitBreaker),
		cache:        cfg.Cache,
		fixtureTTL:   cfg.FixtureCacheTTL,
		recorder:     cfg.Recorder,
	}
}

// getJSON fetches path, checks the provider envelope and decodes it into target.
// When ttl > 0 and a cache is configured the raw body is served from and stored in it.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, target envelopeChecker, ttl time.Duration) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	cacheKey := providerName + ":" + path + "?" + query.Encode()

	if ttl > 0 && c.cache != nil {
		raw, ok, err := c.cache.GetBytes(ctx, cacheKey)
		if err != nil {
			c.logger.WarnContext(ctx, "read provider cache failed", "key", cacheKey, "error", err)
		}
		if ok {
			if err := decodeEnvelope(raw, target); err == nil {
				c.record(ctx, endpoint, "cache_hit", 0)
				return nil
			}
		}
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
		c.record(ctx, endpoint, "circuit_open", 0)
		return fmt.Errorf("%w: match source is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	startedAt := time.Now()
	raw, err, _ := c.flight.Do(cacheKey, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isTransient)
		return body, reqErr
	})
	if err != nil {
		c.record(ctx, endpoint, outcomeOf(err), time.Since(startedAt))
		return err
	}

	if err := decodeEnvelope(raw, target); err != nil {
		c.record(ctx, endpoint, "provider_error", time.Since(startedAt))
		return err
	}
	c.record(ctx, endpoint, "ok", time.Since(startedAt))

	if ttl > 0 && c.cache != nil {
		if err := c.cache.SetBytes(ctx, cacheKey, raw, ttl); err != nil {
			c.logger.WarnContext(ctx, "write provider cache failed", "key", cacheKey, "error", err)
		}
	}
	return nil
}

func decodeEnvelope(raw []byte, target envelopeChecker) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	if msg := target.providerErrors(); msg != "" {
		return fmt.Errorf("provider returned errors: %s", msg)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, c.redact(abbreviateBody(raw)))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, c.redact(abbreviateBody(raw)))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) record(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordProviderRequest(ctx, providerName, endpoint, outcome, elapsed)
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func isTransient(err error) bool {
	return stderrors.Is(err, errAPIFootballTransient)
}

func outcomeOf(err error) string {
	switch {
	case isTransient(err):
		return "transient_error"
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
