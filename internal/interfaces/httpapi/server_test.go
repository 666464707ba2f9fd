package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

func TestNewRouter_Healthz(t *testing.T) {
	router := NewRouter(NewHandler(nil, nil, nil, nil, nil, logging.NewNop()), logging.NewNop(), RouterOptions{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestNewRouter_InternalRoutesRequireToken(t *testing.T) {
	router := NewRouter(NewHandler(nil, nil, nil, nil, nil, logging.NewNop()), logging.NewNop(), RouterOptions{
		InternalJobToken: "secret",
	})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/internal/identity/resolve"},
		{http.MethodGet, "/v1/internal/identity/reviews"},
		{http.MethodPost, "/v1/internal/players/pl_1/profiles/fotmob"},
		{http.MethodPost, "/v1/internal/ratings/recompute"},
		{http.MethodPut, "/v1/internal/rating-profiles/GK"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestNewRouter_MetricsOptional(t *testing.T) {
	handler := NewHandler(nil, nil, nil, nil, nil, logging.NewNop())

	rec := httptest.NewRecorder()
	NewRouter(handler, logging.NewNop(), RouterOptions{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics handler, got %d", rec.Code)
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("scout_up 1\n"))
	})
	rec = httptest.NewRecorder()
	NewRouter(handler, logging.NewNop(), RouterOptions{MetricsHandler: metrics}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "scout_up") {
		t.Fatalf("expected metrics body, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRecoverPanic(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/x", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic value leaked into response: %s", rec.Body.String())
	}
}
