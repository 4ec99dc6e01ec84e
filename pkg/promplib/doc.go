/*
Package promplib records and replays interactive motion-primitive learning
sessions.

# Overview

promplib wraps an adaptive motion-primitive learner and durably captures
every input event it receives: joint-space demonstrations with their paired
end-effector paths, and task-space goal requests. Each session writes into
one numbered dataset on disk. After Close, the exact learner state can be
reconstructed by replaying the recorded sequence against a fresh learner,
either under the original primitive targets or letting the learner
re-place every demonstration.

The statistical model behind primitive fitting stays behind the Learner
interface; promplib only owns ordering, identity, and replay determinism.

# Basic Usage

Record a session, close it, then replay it:

	learner := myLearner() // implements promplib.Learner

	rec, err := promplib.New(learner, "./datasets", -1)
	if err != nil {
	    log.Fatal(err)
	}
	defer rec.Shutdown()

	ctx := context.Background()
	added, err := rec.AddDemonstration(ctx, demo, eefPath)
	if err != nil {
	    log.Fatal(err)
	}
	reached, err := rec.SetGoal(ctx, goal, nil)
	if err != nil {
	    log.Fatal(err)
	}
	if err := rec.Close(); err != nil {
	    log.Fatal(err)
	}

	timeline, err := rec.Play(ctx, true, true)
	if err != nil {
	    log.Fatal(err)
	}

# Datasets

A dataset is a directory dataset_<id> under a datasets root. Passing a
negative id to New auto-selects the first free id in [0, 100). Passing an
explicit id reopens that dataset whether or not it holds data, which is how
a closed recording is reopened for replay.

By default payloads live as per-occurrence JSON files next to the
sequence.json manifest. WithSQLiteBackend stores the whole dataset in a
single dataset.db file instead.

# Target Policy

Play(ctx, keepTargets, refining) replays events strictly in capture order.
With keepTargets true, each demonstration is forced into the primitive it
originally joined; an original index that is no longer valid for the
current learner collapses to TargetAuto. With keepTargets false, every
demonstration is resubmitted with TargetAuto and the learner's placement
policy decides anew, so the returned timeline may diverge from the
original outcomes.
*/
package promplib
