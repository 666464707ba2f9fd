package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartUsecaseSpan_NoParentIsNoop(t *testing.T) {
	_, span := startUsecaseSpan(t.Context(), "usecase.RatingService.RecomputeRatings")
	assert.False(t, span.SpanContext().IsValid())
}

func TestRatingService_RecomputeSpanCarriesScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, request := tp.Tracer("otelhttp").Start(t.Context(), "POST /v1/internal/ratings/recompute")

	fx := newRatingFixture(t, nil)
	_, err := fx.service.RecomputeRatings(ctx, RecomputeInput{Country: "nl", DryRun: true})
	require.NoError(t, err)
	request.End()

	var found bool
	for _, span := range recorder.Ended() {
		if span.Name() != "usecase.RatingService.RecomputeRatings" {
			continue
		}
		found = true
		assert.Equal(t, request.SpanContext().SpanID(), span.Parent().SpanID())
		assert.Contains(t, span.Attributes(), attribute.String("country", "nl"))
		assert.Contains(t, span.Attributes(), attribute.Bool("dry_run", true))
	}
	assert.True(t, found, "recompute span recorded")
}
