package dataset

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory store for testing. Data is lost when the
// process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	demos    map[int]storedDemo
	goals    map[int]storedGoal
	manifest []Event
	sealed   bool // manifest written at least once
	closed   bool
}

type storedDemo struct {
	demo JointTrajectory
	eef  EEFTrajectory
}

type storedGoal struct {
	cart  Pose
	joint JointGoal
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		demos: make(map[int]storedDemo),
		goals: make(map[int]storedGoal),
	}
}

// SaveDemo implements Store.
func (m *MemoryStore) SaveDemo(id int, demo JointTrajectory, eef EEFTrajectory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.demos[id] = storedDemo{demo: demo, eef: eef}
	return nil
}

// LoadDemo implements Store.
func (m *MemoryStore) LoadDemo(id int) (JointTrajectory, EEFTrajectory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, nil, ErrStoreClosed
	}
	d, ok := m.demos[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: demo %d", ErrNotFound, id)
	}
	return d.demo, d.eef, nil
}

// SaveGoal implements Store.
func (m *MemoryStore) SaveGoal(id int, cart Pose, joint JointGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.goals[id] = storedGoal{cart: cart, joint: joint}
	return nil
}

// LoadGoal implements Store.
func (m *MemoryStore) LoadGoal(id int) (Pose, JointGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Pose{}, nil, ErrStoreClosed
	}
	g, ok := m.goals[id]
	if !ok {
		return Pose{}, nil, fmt.Errorf("%w: goal %d", ErrNotFound, id)
	}
	return g.cart, g.joint, nil
}

// SaveManifest implements Store.
func (m *MemoryStore) SaveManifest(events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy to avoid retaining the caller's slice
	m.manifest = make([]Event, len(events))
	copy(m.manifest, events)
	m.sealed = true
	return nil
}

// LoadManifest implements Store.
func (m *MemoryStore) LoadManifest() ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if !m.sealed {
		return nil, fmt.Errorf("%w: manifest", ErrNotFound)
	}

	events := make([]Event, len(m.manifest))
	copy(events, m.manifest)
	return events, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.demos = nil
	m.goals = nil
	m.manifest = nil
	return nil
}

// Len returns the total number of persisted payloads. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.demos) + len(m.goals)
}
