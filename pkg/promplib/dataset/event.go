package dataset

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the two event kinds stored in a manifest.
type Kind string

// Event kinds.
const (
	KindDemo Kind = "demo"
	KindGoal Kind = "goal"
)

// JointTrajectory is a joint-space demonstration, indexed [time][joint].
type JointTrajectory [][]float64

// JointGoal is a joint-space configuration, used for diagnostics only.
type JointGoal []float64

// Trajectory is a learner-generated joint-space trajectory. The recorder
// treats it as opaque output.
type Trajectory [][]float64

// Pose is a task-space pose: a position and an optional orientation
// quaternion. The wire format is positional, matching the recorded files:
// [[x, y, z], [qx, qy, qz, qw]], with the quaternion element omitted when
// the orientation is absent.
type Pose struct {
	Position    []float64
	Orientation []float64
}

// MarshalJSON implements json.Marshaler.
func (p Pose) MarshalJSON() ([]byte, error) {
	if p.Orientation == nil {
		return json.Marshal([][]float64{p.Position})
	}
	return json.Marshal([][]float64{p.Position, p.Orientation})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var parts [][]float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	switch len(parts) {
	case 1:
		p.Position, p.Orientation = parts[0], nil
	case 2:
		p.Position, p.Orientation = parts[0], parts[1]
	default:
		return fmt.Errorf("pose must have 1 or 2 elements, got %d", len(parts))
	}
	return nil
}

// EEFTrajectory is the end-effector path of a demonstration, one pose per
// sample of the paired joint trajectory.
type EEFTrajectory []Pose

// Event is one entry of the recorded sequence. Demo events carry the index
// of the primitive that absorbed the demonstration; goal events carry the
// goal identifier and diagnostic log the learner produced when the goal was
// set. Payloads live in separate per-occurrence records, not in the event.
type Event struct {
	Kind    Kind
	AddedTo int    // demo: absorbing primitive index
	GoalID  int    // goal: learner-assigned goal identifier
	GoalLog string // goal: learner diagnostic log
}

// demoJSON and goalJSON pin the manifest entry formats. Each kind serializes
// only its own keys.
type demoJSON struct {
	Type    Kind `json:"type"`
	AddedTo int  `json:"added_to"`
}

type goalJSON struct {
	Type Kind   `json:"type"`
	ID   int    `json:"id"`
	Log  string `json:"log"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindDemo:
		return json.Marshal(demoJSON{Type: KindDemo, AddedTo: e.AddedTo})
	case KindGoal:
		return json.Marshal(goalJSON{Type: KindGoal, ID: e.GoalID, Log: e.GoalLog})
	default:
		return nil, fmt.Errorf("unknown event kind: %q", e.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	switch tag.Type {
	case KindDemo:
		var d demoJSON
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*e = Event{Kind: KindDemo, AddedTo: d.AddedTo}
	case KindGoal:
		var g goalJSON
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*e = Event{Kind: KindGoal, GoalID: g.ID, GoalLog: g.Log}
	default:
		return fmt.Errorf("unknown event kind: %q", tag.Type)
	}
	return nil
}
