package promplib

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
	"github.com/Lu-cici/promplib/pkg/promplib/observability"
)

// TimelineEntry is the observed outcome of one replayed event.
type TimelineEntry struct {
	// Kind is the replayed event kind.
	Kind dataset.Kind `json:"type"`

	// AddedTo is the primitive that absorbed the replayed demonstration.
	// Demo entries only.
	AddedTo int `json:"added_to,omitempty"`

	// IsReached reports whether the replayed goal was taken into account.
	// Goal entries only.
	IsReached bool `json:"is_reached,omitempty"`

	// Log is the learner's diagnostic log after the replayed goal.
	Log string `json:"log,omitempty"`

	// Trajectory is the trajectory generated for an accepted goal, nil
	// otherwise.
	Trajectory dataset.Trajectory `json:"trajectory,omitempty"`
}

// playNextDemo loads the demonstration pair at the current demo counter and
// resubmits it to the learner. receiving is the requested target primitive;
// any target that is not a valid index under the learner's current primitive
// count collapses to TargetAuto, so replay never forces an out-of-range
// index. Returns the index the learner reports for this resubmission.
func (r *Recorder) playNextDemo(ctx context.Context, receiving int) (int, error) {
	demo, eef, err := r.store.LoadDemo(r.cursor.Demo)
	if err != nil {
		return 0, fmt.Errorf("load demo %d: %w", r.cursor.Demo, err)
	}
	r.cursor.Demo++

	target := receiving
	if receiving < 0 || receiving >= r.learner.NumPrimitives() {
		target = TargetAuto
	}
	return r.learner.AddDemonstration(ctx, demo, eef, target)
}

// playNextGoal loads the goal at the current goal counter and resubmits it
// to the learner. The joint-space payload is optional: a nil value means
// none was recorded. A trajectory is generated only when the learner takes
// the goal into account.
func (r *Recorder) playNextGoal(ctx context.Context, refining bool) (bool, dataset.Trajectory, error) {
	cart, joint, err := r.store.LoadGoal(r.cursor.Goal)
	if err != nil {
		return false, nil, fmt.Errorf("load goal %d: %w", r.cursor.Goal, err)
	}
	r.cursor.Goal++

	reached, err := r.learner.SetGoal(ctx, cart, joint, refining)
	if err != nil {
		return false, nil, err
	}
	if !reached {
		return false, nil, nil
	}

	trajectory, err := r.learner.GenerateTrajectory(ctx)
	if err != nil {
		return false, nil, err
	}
	return true, trajectory, nil
}

// Play replays the recorded sequence against the learner and returns the
// timeline of observed outcomes, in original capture order.
//
// The in-memory sequence is discarded and reloaded from the manifest, so
// replay always runs against durable state; call Close first to flush a
// recording in progress. Both counters restart from zero.
//
// keepTargets chooses the target-reassignment policy: true resubmits each
// demonstration into the primitive it originally joined (falling back to
// TargetAuto when that index no longer exists), false lets the learner
// re-place every demonstration. refining is forwarded to each replayed
// goal. The returned timeline may diverge from the original outcomes when
// keepTargets is false.
//
// A failure anywhere aborts the replay with no checkpoint; a fresh Play
// restarts from the beginning.
func (r *Recorder) Play(ctx context.Context, keepTargets, refining bool) ([]TimelineEntry, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	ctx, span := r.spans.StartReplaySpan(ctx, r.ds.ID, keepTargets)
	start := time.Now()
	observability.LogReplayStart(r.logger, keepTargets, refining)

	r.cursor.Reset()

	events, err := r.store.LoadManifest()
	if err != nil {
		err = fmt.Errorf("load manifest: %w", err)
		r.finishReplay(ctx, span, start, 0, err)
		return nil, err
	}
	r.sequence = events

	timeline := make([]TimelineEntry, 0, len(events))
	for i, event := range events {
		switch event.Kind {
		case dataset.KindDemo:
			target := TargetAuto
			if keepTargets {
				target = event.AddedTo
			}
			addedTo, err := r.playNextDemo(ctx, target)
			if err != nil {
				observability.LogReplayError(r.logger, err, i)
				r.finishReplay(ctx, span, start, i, err)
				return nil, err
			}
			timeline = append(timeline, TimelineEntry{Kind: dataset.KindDemo, AddedTo: addedTo})

		case dataset.KindGoal:
			reached, trajectory, err := r.playNextGoal(ctx, refining)
			if err != nil {
				observability.LogReplayError(r.logger, err, i)
				r.finishReplay(ctx, span, start, i, err)
				return nil, err
			}
			timeline = append(timeline, TimelineEntry{
				Kind:       dataset.KindGoal,
				IsReached:  reached,
				Log:        r.learner.GoalLog(),
				Trajectory: trajectory,
			})
		}
	}

	observability.LogReplayComplete(r.logger, len(timeline), float64(time.Since(start).Milliseconds()))
	r.finishReplay(ctx, span, start, len(timeline), nil)
	return timeline, nil
}

func (r *Recorder) finishReplay(ctx context.Context, span trace.Span, start time.Time, events int, err error) {
	r.metrics.RecordReplay(ctx, events, err == nil, time.Since(start))
	r.spans.EndSpanWithError(span, err)
}
