package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records session metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent records one recorded or replayed event with its duration
	// and error status. The kind is "demo" or "goal".
	RecordEvent(ctx context.Context, kind string, duration time.Duration, err error)

	// RecordReplay records a replay run completion.
	RecordReplay(ctx context.Context, events int, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	events        metric.Int64Counter
	eventLatency  metric.Float64Histogram
	eventErrors   metric.Int64Counter
	replays       metric.Int64Counter
	replayLatency metric.Float64Histogram
	replayEvents  metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("promplib")

	events, err := meter.Int64Counter("promplib.events",
		metric.WithDescription("Number of recorded or replayed events"),
	)
	if err != nil {
		return nil, err
	}

	eventLatency, err := meter.Float64Histogram("promplib.event.latency_ms",
		metric.WithDescription("Event processing latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	eventErrors, err := meter.Int64Counter("promplib.event.errors",
		metric.WithDescription("Number of event processing errors"),
	)
	if err != nil {
		return nil, err
	}

	replays, err := meter.Int64Counter("promplib.replays",
		metric.WithDescription("Number of replay runs"),
	)
	if err != nil {
		return nil, err
	}

	replayLatency, err := meter.Float64Histogram("promplib.replay.latency_ms",
		metric.WithDescription("Replay run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	replayEvents, err := meter.Int64Histogram("promplib.replay.events",
		metric.WithDescription("Number of events per replay run"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		events:        events,
		eventLatency:  eventLatency,
		eventErrors:   eventErrors,
		replays:       replays,
		replayLatency: replayLatency,
		replayEvents:  replayEvents,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvent records one recorded or replayed event.
func (m *otelMetrics) RecordEvent(ctx context.Context, kind string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
	}

	m.events.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.eventLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.eventErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordReplay records a replay run.
func (m *otelMetrics) RecordReplay(ctx context.Context, events int, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.replays.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.replayLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.replayEvents.Record(ctx, int64(events), metric.WithAttributes(attrs...))
}
