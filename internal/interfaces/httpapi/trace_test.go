package httpapi

import (
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_OnlyHandlersUnderTracedRequest(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, request := tp.Tracer("otelhttp").Start(t.Context(), "POST /v1/internal/identity/resolve")

	for _, name := range []string{"httpapi.Handler.ResolveIdentity", "httpapi.RequestLogging", "httpapi.writeError"} {
		_, span := startSpan(ctx, name)
		span.End()
	}
	request.End()

	got := make(map[string]bool)
	for _, span := range recorder.Ended() {
		got[span.Name()] = true
	}
	if !got["httpapi.Handler.ResolveIdentity"] {
		t.Fatalf("expected handler span, got %v", got)
	}
	if got["httpapi.RequestLogging"] || got["httpapi.writeError"] {
		t.Fatalf("middleware and helpers must not open spans, got %v", got)
	}

	_, span := startSpan(t.Context(), "httpapi.Handler.Healthz")
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no-op span without a request span")
	}
}
