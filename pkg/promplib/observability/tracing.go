package observability

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the promplib tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("promplib")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartReplaySpan starts a span covering a full replay run.
	StartReplaySpan(ctx context.Context, datasetID int, keepTargets bool) (context.Context, trace.Span)

	// StartEventSpan starts a span for recording or replaying one event.
	// The kind is "demo" or "goal"; index is the per-kind occurrence index.
	StartEventSpan(ctx context.Context, kind string, index int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartReplaySpan starts a span covering a full replay run.
func (m *otelSpanManager) StartReplaySpan(ctx context.Context, datasetID int, keepTargets bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "promplib.replay",
		trace.WithAttributes(
			attribute.Int("dataset.id", datasetID),
			attribute.Bool("replay.keep_targets", keepTargets),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEventSpan starts a span for one recorded or replayed event.
func (m *otelSpanManager) StartEventSpan(ctx context.Context, kind string, index int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "promplib.event."+kind+"."+strconv.Itoa(index),
		trace.WithAttributes(
			attribute.String("event.kind", kind),
			attribute.Int("event.index", index),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
