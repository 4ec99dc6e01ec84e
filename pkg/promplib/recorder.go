package promplib

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
	"github.com/Lu-cici/promplib/pkg/promplib/observability"
)

// Recorder wraps a Learner and durably captures every demonstration and
// goal request fed to it, in arrival order, so the session can later be
// replayed with Play. It owns one dataset directory for the lifetime of
// the instance.
//
// All operations are synchronous and single-threaded by contract: one
// caller records, closes, then replays. Interleaving AddDemonstration or
// SetGoal with Play on the same instance without a Close in between breaks
// the counter baseline Play assumes.
type Recorder struct {
	learner   Learner
	ds        *dataset.Dataset
	store     dataset.Store
	ownsStore bool

	cursor   RecordingCursor
	sequence []dataset.Event

	sessionID string
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
}

// New creates a Recorder over the given learner. root is the datasets
// folder; id selects the dataset to open, with a negative id auto-selecting
// the first free one. The dataset directory is created if missing.
func New(learner Learner, root string, id int, opts ...Option) (*Recorder, error) {
	if learner == nil {
		return nil, ErrNilLearner
	}

	cfg := defaultRecorderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ds, err := dataset.Resolve(root, id)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset: %w", err)
	}

	store := cfg.store
	ownsStore := false
	if store == nil {
		ownsStore = true
		if cfg.sqlite {
			store, err = dataset.NewSQLiteStore(filepath.Join(ds.Path, "dataset.db"))
			if err != nil {
				return nil, fmt.Errorf("open dataset store: %w", err)
			}
		} else {
			store = dataset.NewFSStore(ds)
		}
	}

	sessionID := uuid.New().String()
	logger := observability.EnrichLogger(cfg.logger, ds.ID, sessionID)
	observability.LogSessionOpen(logger, ds.Path)

	return &Recorder{
		learner:   learner,
		ds:        ds,
		store:     store,
		ownsStore: ownsStore,
		sessionID: sessionID,
		logger:    logger,
		metrics:   cfg.metrics,
		spans:     cfg.spans,
	}, nil
}

// DatasetID returns the dataset number this recorder writes to.
func (r *Recorder) DatasetID() int {
	return r.ds.ID
}

// DatasetPath returns the dataset directory.
func (r *Recorder) DatasetPath() string {
	return r.ds.Path
}

// SessionID returns the unique id of this recorder instance, used to
// correlate logs and spans.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Cursor returns a copy of the per-kind occurrence counters.
func (r *Recorder) Cursor() RecordingCursor {
	return r.cursor
}

// Events returns a copy of the in-memory event sequence.
func (r *Recorder) Events() []dataset.Event {
	events := make([]dataset.Event, len(r.sequence))
	copy(events, r.sequence)
	return events
}

// AddDemonstration persists a demonstration and forwards it to the learner,
// which decides which primitive absorbs it or whether a new one is created.
// Returns the absorbing primitive index, unchanged from the learner.
//
// The payload is persisted before the learner sees it, so a learner
// rejection still leaves the files on disk.
func (r *Recorder) AddDemonstration(ctx context.Context, demo dataset.JointTrajectory, eef dataset.EEFTrajectory) (int, error) {
	if ctx == nil {
		return 0, ErrNilContext
	}

	ctx, span := r.spans.StartEventSpan(ctx, string(dataset.KindDemo), r.cursor.Demo)
	start := time.Now()

	if err := r.store.SaveDemo(r.cursor.Demo, demo, eef); err != nil {
		err = fmt.Errorf("persist demo %d: %w", r.cursor.Demo, err)
		observability.LogStoreError(r.logger, "save_demo", err)
		r.finishEvent(ctx, span, dataset.KindDemo, start, err)
		return 0, err
	}

	index, err := r.learner.AddDemonstration(ctx, demo, eef, TargetAuto)
	if err != nil {
		r.finishEvent(ctx, span, dataset.KindDemo, start, err)
		return 0, err
	}

	r.sequence = append(r.sequence, dataset.Event{Kind: dataset.KindDemo, AddedTo: index})
	observability.LogDemoRecorded(r.logger, r.cursor.Demo, index, len(demo))
	r.cursor.Demo++

	r.finishEvent(ctx, span, dataset.KindDemo, start, nil)
	return index, nil
}

// SetGoal forwards a task-space goal to the learner, then persists the goal
// payloads and the learner's verdict. joint is optional and used by the
// learner for diagnostics only. Returns the learner's result unchanged:
// true if the goal was taken into account, false if a new demonstration is
// needed.
//
// The learner runs first so the recorded goal id and log reflect the state
// the goal was evaluated against.
func (r *Recorder) SetGoal(ctx context.Context, x dataset.Pose, joint dataset.JointGoal) (bool, error) {
	if ctx == nil {
		return false, ErrNilContext
	}

	ctx, span := r.spans.StartEventSpan(ctx, string(dataset.KindGoal), r.cursor.Goal)
	start := time.Now()

	reached, err := r.learner.SetGoal(ctx, x, joint, true)
	if err != nil {
		r.finishEvent(ctx, span, dataset.KindGoal, start, err)
		return false, err
	}

	if err := r.store.SaveGoal(r.cursor.Goal, x, joint); err != nil {
		err = fmt.Errorf("persist goal %d: %w", r.cursor.Goal, err)
		observability.LogStoreError(r.logger, "save_goal", err)
		r.finishEvent(ctx, span, dataset.KindGoal, start, err)
		return false, err
	}

	r.sequence = append(r.sequence, dataset.Event{
		Kind:    dataset.KindGoal,
		GoalID:  r.learner.GoalID(),
		GoalLog: r.learner.GoalLog(),
	})
	observability.LogGoalRecorded(r.logger, r.cursor.Goal, r.learner.GoalID(), reached)
	r.cursor.Goal++

	r.finishEvent(ctx, span, dataset.KindGoal, start, nil)
	return reached, nil
}

// Close writes the full event sequence to the manifest in one write,
// resets both counters to zero, and clears all fitted learner state.
// Persisted payload files are left untouched, so the dataset remains
// replayable afterward. The manifest write and the resets are not atomic
// with each other.
func (r *Recorder) Close() error {
	if err := r.store.SaveManifest(r.sequence); err != nil {
		err = fmt.Errorf("write manifest: %w", err)
		observability.LogStoreError(r.logger, "save_manifest", err)
		return err
	}

	observability.LogSessionClosed(r.logger, len(r.sequence))
	r.cursor.Reset()
	r.learner.Clear()
	return nil
}

// Shutdown closes the underlying store when the recorder created it.
// Stores injected with WithStore stay open; their owner closes them.
func (r *Recorder) Shutdown() error {
	if !r.ownsStore {
		return nil
	}
	return r.store.Close()
}

func (r *Recorder) finishEvent(ctx context.Context, span trace.Span, kind dataset.Kind, start time.Time, err error) {
	r.metrics.RecordEvent(ctx, string(kind), time.Since(start), err)
	r.spans.EndSpanWithError(span, err)
}
