package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FSStore persists payloads as plain JSON files inside the dataset
// directory: demo_<i>.json and path_<i>.json per demo occurrence,
// cart_goal_<i>.json and an optional joint_goal_<i>.json per goal
// occurrence, and sequence.json for the manifest. This layout is the
// canonical one; recorded datasets stay readable with any JSON tooling.
type FSStore struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// NewFSStore creates a file-backed store writing into the dataset directory.
func NewFSStore(ds *Dataset) *FSStore {
	return &FSStore{dir: ds.Path}
}

func (s *FSStore) demoFile(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("demo_%d.json", id))
}

func (s *FSStore) pathFile(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("path_%d.json", id))
}

func (s *FSStore) cartGoalFile(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("cart_goal_%d.json", id))
}

func (s *FSStore) jointGoalFile(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("joint_goal_%d.json", id))
}

func (s *FSStore) manifestFile() string {
	return filepath.Join(s.dir, "sequence.json")
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SaveDemo implements Store.
func (s *FSStore) SaveDemo(id int, demo JointTrajectory, eef EEFTrajectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if err := writeJSON(s.demoFile(id), demo); err != nil {
		return err
	}
	return writeJSON(s.pathFile(id), eef)
}

// LoadDemo implements Store.
func (s *FSStore) LoadDemo(id int) (JointTrajectory, EEFTrajectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, nil, ErrStoreClosed
	}

	var demo JointTrajectory
	if err := readJSON(s.demoFile(id), &demo); err != nil {
		return nil, nil, err
	}
	var eef EEFTrajectory
	if err := readJSON(s.pathFile(id), &eef); err != nil {
		return nil, nil, err
	}
	return demo, eef, nil
}

// SaveGoal implements Store.
func (s *FSStore) SaveGoal(id int, cart Pose, joint JointGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if err := writeJSON(s.cartGoalFile(id), cart); err != nil {
		return err
	}
	if joint == nil {
		return nil
	}
	return writeJSON(s.jointGoalFile(id), joint)
}

// LoadGoal implements Store.
func (s *FSStore) LoadGoal(id int) (Pose, JointGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Pose{}, nil, ErrStoreClosed
	}

	var cart Pose
	if err := readJSON(s.cartGoalFile(id), &cart); err != nil {
		return Pose{}, nil, err
	}

	// The joint-space goal is optional: absence of the file means none was
	// recorded, not an error.
	var joint JointGoal
	if _, err := os.Stat(s.jointGoalFile(id)); os.IsNotExist(err) {
		return cart, nil, nil
	}
	if err := readJSON(s.jointGoalFile(id), &joint); err != nil {
		return Pose{}, nil, err
	}
	return cart, joint, nil
}

// SaveManifest implements Store.
func (s *FSStore) SaveManifest(events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if events == nil {
		events = []Event{}
	}
	return writeJSON(s.manifestFile(), events)
}

// LoadManifest implements Store.
func (s *FSStore) LoadManifest() ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var events []Event
	if err := readJSON(s.manifestFile(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Close implements Store.
func (s *FSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
