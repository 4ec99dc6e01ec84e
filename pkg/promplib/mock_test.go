package promplib_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lu-cici/promplib/pkg/promplib"
	"github.com/Lu-cici/promplib/pkg/promplib/dataset"
)

var errNoActiveGoal = errors.New("no active goal")

// mockLearner is a scripted Learner for tests. Its default placement policy
// creates a new primitive for every auto-targeted demonstration; tests can
// swap the policy to simulate a learner that places demos differently
// between runs.
type mockLearner struct {
	primitives int
	goalSeq    int
	goalID     int
	goalLog    string

	goalOK     bool
	lastGoalOK bool

	addErr  error
	goalErr error

	autoPlace func(numPrimitives int) int

	// call tracking
	addTargets []int
	addedTo    []int
	goalCalls  []mockGoalCall
	callOrder  []string
}

type mockGoalCall struct {
	x        dataset.Pose
	joint    dataset.JointGoal
	refining bool
}

func newMockLearner() *mockLearner {
	return &mockLearner{goalOK: true}
}

// withGoalResult scripts the verdict of every SetGoal call.
func (m *mockLearner) withGoalResult(ok bool) *mockLearner {
	m.goalOK = ok
	return m
}

// withAddError makes AddDemonstration fail.
func (m *mockLearner) withAddError(err error) *mockLearner {
	m.addErr = err
	return m
}

// withGoalError makes SetGoal fail.
func (m *mockLearner) withGoalError(err error) *mockLearner {
	m.goalErr = err
	return m
}

// withAutoPlacement replaces the placement policy for auto-targeted demos.
// Returning a value >= the current primitive count creates a new primitive.
func (m *mockLearner) withAutoPlacement(policy func(numPrimitives int) int) *mockLearner {
	m.autoPlace = policy
	return m
}

// withPrimitives pre-seeds fitted primitives, as if demos were already absorbed.
func (m *mockLearner) withPrimitives(n int) *mockLearner {
	m.primitives = n
	return m
}

func (m *mockLearner) AddDemonstration(_ context.Context, demo dataset.JointTrajectory, _ dataset.EEFTrajectory, target int) (int, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}

	m.addTargets = append(m.addTargets, target)
	m.callOrder = append(m.callOrder, "demo")

	index := target
	if target < 0 || target >= m.primitives {
		index = m.primitives
		if m.autoPlace != nil && target < 0 {
			index = m.autoPlace(m.primitives)
		}
		if index >= m.primitives {
			index = m.primitives
			m.primitives++
		}
	}

	m.addedTo = append(m.addedTo, index)
	return index, nil
}

func (m *mockLearner) SetGoal(_ context.Context, x dataset.Pose, joint dataset.JointGoal, refining bool) (bool, error) {
	if m.goalErr != nil {
		return false, m.goalErr
	}

	m.goalCalls = append(m.goalCalls, mockGoalCall{x: x, joint: joint, refining: refining})
	m.callOrder = append(m.callOrder, "goal")

	m.goalID = m.goalSeq
	m.goalSeq++
	m.goalLog = fmt.Sprintf("goal %d against %d primitives", m.goalID, m.primitives)
	m.lastGoalOK = m.goalOK
	return m.goalOK, nil
}

func (m *mockLearner) GenerateTrajectory(_ context.Context) (dataset.Trajectory, error) {
	if !m.lastGoalOK {
		return nil, errNoActiveGoal
	}
	return dataset.Trajectory{{0.1, 0.2}, {0.3, 0.4}}, nil
}

func (m *mockLearner) Clear() {
	m.primitives = 0
	m.goalSeq = 0
	m.goalID = 0
	m.goalLog = ""
	m.lastGoalOK = false
}

func (m *mockLearner) NumPrimitives() int { return m.primitives }
func (m *mockLearner) GoalID() int        { return m.goalID }
func (m *mockLearner) GoalLog() string    { return m.goalLog }

// Compile-time interface check.
var _ promplib.Learner = (*mockLearner)(nil)
