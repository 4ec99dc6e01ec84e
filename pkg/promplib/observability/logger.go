// Package observability provides structured logging, metrics, and tracing
// hooks for recording and replay sessions.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds session context to a logger.
// Returns a new logger with dataset_id and session_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, 3, "a1b2...")
//	enriched.Info("recording") // includes dataset_id, session_id
func EnrichLogger(logger *slog.Logger, datasetID int, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.Int("dataset_id", datasetID),
		slog.String("session_id", sessionID),
	)
}

// LogSessionOpen logs the start of a recording session.
func LogSessionOpen(logger *slog.Logger, datasetPath string) {
	if logger == nil {
		return
	}
	logger.Info("recording session opened",
		slog.String("dataset_path", datasetPath),
	)
}

// LogDemoRecorded logs a recorded demonstration.
func LogDemoRecorded(logger *slog.Logger, index, addedTo int, samples int) {
	if logger == nil {
		return
	}
	logger.Debug("demonstration recorded",
		slog.Int("demo_id", index),
		slog.Int("added_to", addedTo),
		slog.Int("samples", samples),
	)
}

// LogGoalRecorded logs a recorded goal request.
func LogGoalRecorded(logger *slog.Logger, index, goalID int, reached bool) {
	if logger == nil {
		return
	}
	logger.Debug("goal recorded",
		slog.Int("goal_id", index),
		slog.Int("learner_goal_id", goalID),
		slog.Bool("is_reached", reached),
	)
}

// LogSessionClosed logs manifest flush and session reset.
func LogSessionClosed(logger *slog.Logger, events int) {
	if logger == nil {
		return
	}
	logger.Info("recording session closed",
		slog.Int("events", events),
	)
}

// LogReplayStart logs the start of a replay run.
func LogReplayStart(logger *slog.Logger, keepTargets, refining bool) {
	if logger == nil {
		return
	}
	logger.Info("replay starting",
		slog.Bool("keep_targets", keepTargets),
		slog.Bool("refining", refining),
	)
}

// LogReplayComplete logs successful replay completion.
func LogReplayComplete(logger *slog.Logger, events int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("replay completed",
		slog.Int("events", events),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogReplayError logs replay failure.
func LogReplayError(logger *slog.Logger, err error, position int) {
	if logger == nil {
		return
	}
	logger.Error("replay failed",
		slog.String("error", err.Error()),
		slog.Int("position", position),
	)
}

// LogStoreError logs a storage failure (always fatal to the current call).
func LogStoreError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Error("store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
