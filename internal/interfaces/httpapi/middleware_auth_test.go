package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireInternalJobToken(t *testing.T) {
	var seenCaller string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCaller = jobCallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configured string
		provided   string
		caller     string
		wantCode   int
		wantCaller string
	}{
		{name: "not configured", configured: "", provided: "secret", wantCode: http.StatusServiceUnavailable},
		{name: "missing header", configured: "secret", provided: "", wantCode: http.StatusUnauthorized},
		{name: "wrong token", configured: "secret", provided: "secreT", wantCode: http.StatusUnauthorized},
		{name: "valid token", configured: "secret", provided: " secret ", caller: "nightly-recompute", wantCode: http.StatusNoContent, wantCaller: "nightly-recompute"},
		{name: "valid token without caller", configured: "secret", provided: "secret", wantCode: http.StatusNoContent, wantCaller: unknownJobCaller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenCaller = ""
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/ratings/recompute", nil)
			if tt.provided != "" {
				req.Header.Set(internalJobTokenHeader, tt.provided)
			}
			if tt.caller != "" {
				req.Header.Set(internalJobCallerHeader, tt.caller)
			}
			rec := httptest.NewRecorder()

			RequireInternalJobToken(tt.configured, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if seenCaller != tt.wantCaller {
				t.Fatalf("expected caller %q, got %q", tt.wantCaller, seenCaller)
			}
		})
	}
}

func TestResolveClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if got := resolveClientIP(req); got != "10.0.0.7" {
		t.Fatalf("expected remote addr host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := resolveClientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}
