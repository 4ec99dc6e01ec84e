package promplib

import (
	"context"

	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
)

// TargetAuto tells the learner to pick the receiving primitive itself,
// creating a new one when its placement policy calls for it. Any
// non-negative target forces the demonstration into that primitive.
const TargetAuto = -1

// Learner is the adaptive motion-primitive engine the recorder wraps. The
// statistical model behind it is out of scope here: the recorder only needs
// the operations below and treats their outputs as opaque.
//
// NumPrimitives, GoalID, and GoalLog read mutable learner state; GoalID and
// GoalLog are meaningful only after a SetGoal call, and GenerateTrajectory
// is valid only immediately after a SetGoal that returned true.
type Learner interface {
	// AddDemonstration fits a demonstration into the primitive identified
	// by target, or into a learner-chosen one when target is TargetAuto.
	// Returns the index of the absorbing primitive.
	AddDemonstration(ctx context.Context, demo dataset.JointTrajectory, eef dataset.EEFTrajectory, target int) (int, error)

	// SetGoal evaluates a task-space goal against the fitted primitives.
	// joint is an optional joint-space goal used for diagnostics only.
	// Returns true if the goal was taken into account, false if a new
	// demonstration is needed to reach it.
	SetGoal(ctx context.Context, x dataset.Pose, joint dataset.JointGoal, refining bool) (bool, error)

	// GenerateTrajectory produces a trajectory toward the current goal.
	GenerateTrajectory(ctx context.Context) (dataset.Trajectory, error)

	// Clear resets all fitted state: primitives and goals.
	Clear()

	// NumPrimitives reports the current number of fitted primitives.
	NumPrimitives() int

	// GoalID reports the identifier the learner assigned to the last goal.
	GoalID() int

	// GoalLog reports the learner's diagnostic log for the last goal.
	GoalLog() string
}
