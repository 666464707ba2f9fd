package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const usecaseInstrumentation = "scout-core/internal/usecase"

var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan opens a child span for a service operation. Identity
// resolution, merges and rating runs are only traced under a request span;
// without one the call gets a no-op span. The tracer comes from the parent's
// provider so every span of a request lands in the same pipeline.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return parent.TracerProvider().Tracer(usecaseInstrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}
