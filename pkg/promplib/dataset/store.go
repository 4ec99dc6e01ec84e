package dataset

import "errors"

// Store persists recorded payloads and the event manifest for one dataset.
// Payloads are keyed by a zero-based per-kind occurrence index: index i is
// the i-th demo (or goal) recorded since the dataset began. The manifest is
// the ordered event sequence and is always written whole.
type Store interface {
	// SaveDemo persists the joint-space demonstration and its paired
	// end-effector path under occurrence index id. Overwrites.
	SaveDemo(id int, demo JointTrajectory, eef EEFTrajectory) error

	// LoadDemo retrieves the demonstration pair at occurrence index id.
	// Returns ErrNotFound if no demo was persisted under id.
	LoadDemo(id int) (JointTrajectory, EEFTrajectory, error)

	// SaveGoal persists the task-space goal and, when joint is non-nil, the
	// diagnostic joint-space goal under occurrence index id. Overwrites.
	SaveGoal(id int, cart Pose, joint JointGoal) error

	// LoadGoal retrieves the goal at occurrence index id. The joint-space
	// goal is nil when none was persisted. Returns ErrNotFound if no goal
	// was persisted under id.
	LoadGoal(id int) (Pose, JointGoal, error)

	// SaveManifest writes the full ordered event sequence, replacing any
	// prior manifest.
	SaveManifest(events []Event) error

	// LoadManifest reads the ordered event sequence. Returns ErrNotFound
	// if no manifest has been written.
	LoadManifest() ([]Event, error)

	// Close releases any resources (connections, files). Persisted data
	// survives Close and can be reopened.
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no payload or manifest exists under the requested index.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("dataset store closed")
)
