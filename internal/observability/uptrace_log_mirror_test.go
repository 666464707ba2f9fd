package observability

import (
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !shouldSkipUptraceLog("http_request", []any{"http_status", 200, "http_path", "/metrics"}) {
		t.Fatalf("expected metrics scrape log to be skipped")
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/internal/identity/resolve"}) {
		t.Fatalf("did not expect resolve request log to be skipped")
	}
	if shouldSkipUptraceLog("rating recompute finished", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"player_id", "pl_0f3a", "conflicts", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "player_id" || attrs[0].Value.AsString() != "pl_0f3a" {
		t.Fatalf("unexpected player_id attribute")
	}
	if attrs[1].Key != "conflicts" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected conflicts attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"goalsPer90": 0.41,
		"eligible":   true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}

func TestToOTelLogValue_NestedDepth(t *testing.T) {
	v := toOTelLogValue([]any{[]any{[]any{[]any{"deep"}}}}, 0)
	if v.Kind() != otellog.KindSlice {
		t.Fatalf("expected slice value, got %s", v.Kind())
	}
}

func TestToOTelLogValue_NamedScalarsAndDurations(t *testing.T) {
	type positionGroup string

	if got := toOTelLogValue(positionGroup("FWD"), 0); got.Kind() != otellog.KindString || got.AsString() != "FWD" {
		t.Fatalf("expected named string to stay a string, got %s", got.Kind())
	}
	if got := toOTelLogValue(1500*time.Millisecond, 0); got.Kind() != otellog.KindInt64 || got.AsInt64() != 1500 {
		t.Fatalf("expected duration in milliseconds, got %v", got)
	}
	if got := toOTelLogValue(map[positionGroup]float64{"GK": 0.2, "DEF": 0.4}, 0); got.Kind() != otellog.KindMap || len(got.AsMap()) != 2 {
		t.Fatalf("expected map with named string keys to stay a map")
	}
}
