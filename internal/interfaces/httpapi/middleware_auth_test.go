package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/diskichat-admin/internal/usecase"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		header     string
		query      string
		allowQuery bool
		want       string
		wantErr    bool
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "case insensitive scheme", header: "bearer  abc ", want: "abc"},
		{name: "basic scheme", header: "Basic abc", wantErr: true},
		{name: "missing", wantErr: true},
		{name: "query ignored on rest routes", query: "abc", wantErr: true},
		{name: "query on stream routes", query: "abc", allowQuery: true, want: "abc"},
		{name: "header wins over query", header: "Bearer hdr", query: "q", allowQuery: true, want: "hdr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/v1/matches"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := bearerToken(req, tt.allowQuery)
			if tt.wantErr {
				if !errors.Is(err, usecase.ErrUnauthorized) {
					t.Fatalf("expected unauthorized, got token=%q err=%v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("bearerToken()=%q,%v want=%q", got, err, tt.want)
			}
		})
	}
}

func TestRequireInternalJobToken_Unconfigured(t *testing.T) {
	t.Parallel()

	handler := RequireInternalJobToken(" ", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-live", nil)
	req.Header.Set(internalJobTokenHeader, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when no token is configured, got %d", rec.Code)
	}
}
