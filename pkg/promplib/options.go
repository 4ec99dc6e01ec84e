package promplib

import (
	"log/slog"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
	"github.com/Lu-cici/promplib/pkg/promplib/observability"
)

// recorderConfig holds construction options for a Recorder.
type recorderConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	sqlite  bool
	store   dataset.Store
}

// defaultRecorderConfig returns the default construction configuration.
func defaultRecorderConfig() recorderConfig {
	return recorderConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures Recorder construction.
type Option func(*recorderConfig)

// WithLogger sets a structured logger for session events.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *recorderConfig) {
		c.logger = logger
	}
}

// WithMetrics sets a metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *recorderConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets a trace span manager.
// Default: observability.NoopSpanManager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *recorderConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithSQLiteBackend stores payloads and the manifest in a single
// dataset.db file inside the dataset directory instead of per-occurrence
// JSON files.
func WithSQLiteBackend() Option {
	return func(c *recorderConfig) {
		c.sqlite = true
	}
}

// WithStore sets an explicit payload store, overriding the backend choice.
// The caller keeps ownership of the store's lifecycle.
func WithStore(store dataset.Store) Option {
	return func(c *recorderConfig) {
		c.store = store
	}
}
