package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	apiInstrumentation = "scout-core/internal/interfaces/httpapi"
	handlerSpanPrefix  = "httpapi.Handler."
)

var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child of the otelhttp request span for handler work.
// Middleware and response helpers run under every request, so only
// "httpapi.Handler." names get a span of their own.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// Untraced routes such as /healthz carry no parent span.
		return ctx, noopSpan
	}
	if !strings.HasPrefix(name, handlerSpanPrefix) {
		return ctx, noopSpan
	}
	return parent.TracerProvider().Tracer(apiInstrumentation).Start(ctx, name)
}
