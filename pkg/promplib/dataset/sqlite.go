package dataset

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists payloads and the manifest in a single SQLite file.
// It honors the same occurrence-index contract as FSStore and is suitable
// when a dataset should travel as one file.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens a SQLite-backed store. The path should be a file
// path (e.g., filepath.Join(ds.Path, "dataset.db")) or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS payloads (
			kind TEXT NOT NULL,
			idx INTEGER NOT NULL,
			data BLOB NOT NULL,
			aux BLOB,
			PRIMARY KEY (kind, idx)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create payloads table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS manifest (
			position INTEGER PRIMARY KEY,
			event BLOB NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create manifest table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) savePayload(kind Kind, id int, data any, aux any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s %d: %w", kind, id, err)
	}
	var auxBytes []byte
	if aux != nil {
		auxBytes, err = json.Marshal(aux)
		if err != nil {
			return fmt.Errorf("marshal %s %d aux: %w", kind, id, err)
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO payloads (kind, idx, data, aux)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, idx) DO UPDATE SET
			data = excluded.data,
			aux = excluded.aux
	`, string(kind), id, dataBytes, auxBytes)
	if err != nil {
		return fmt.Errorf("save %s %d: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) loadPayload(kind Kind, id int) ([]byte, []byte, error) {
	var data, aux []byte
	err := s.db.QueryRow(`
		SELECT data, aux FROM payloads
		WHERE kind = ? AND idx = ?
	`, string(kind), id).Scan(&data, &aux)

	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load %s %d: %w", kind, id, err)
	}
	return data, aux, nil
}

// SaveDemo implements Store.
func (s *SQLiteStore) SaveDemo(id int, demo JointTrajectory, eef EEFTrajectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	return s.savePayload(KindDemo, id, demo, eef)
}

// LoadDemo implements Store.
func (s *SQLiteStore) LoadDemo(id int) (JointTrajectory, EEFTrajectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, nil, ErrStoreClosed
	}

	data, aux, err := s.loadPayload(KindDemo, id)
	if err != nil {
		return nil, nil, err
	}
	var demo JointTrajectory
	if err := json.Unmarshal(data, &demo); err != nil {
		return nil, nil, fmt.Errorf("parse demo %d: %w", id, err)
	}
	var eef EEFTrajectory
	if err := json.Unmarshal(aux, &eef); err != nil {
		return nil, nil, fmt.Errorf("parse demo %d path: %w", id, err)
	}
	return demo, eef, nil
}

// SaveGoal implements Store.
func (s *SQLiteStore) SaveGoal(id int, cart Pose, joint JointGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// Absent joint goal is stored as NULL, not as an empty document.
	var aux any
	if joint != nil {
		aux = joint
	}
	return s.savePayload(KindGoal, id, cart, aux)
}

// LoadGoal implements Store.
func (s *SQLiteStore) LoadGoal(id int) (Pose, JointGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Pose{}, nil, ErrStoreClosed
	}

	data, aux, err := s.loadPayload(KindGoal, id)
	if err != nil {
		return Pose{}, nil, err
	}
	var cart Pose
	if err := json.Unmarshal(data, &cart); err != nil {
		return Pose{}, nil, fmt.Errorf("parse goal %d: %w", id, err)
	}
	var joint JointGoal
	if len(aux) > 0 {
		if err := json.Unmarshal(aux, &joint); err != nil {
			return Pose{}, nil, fmt.Errorf("parse goal %d joint: %w", id, err)
		}
	}
	return cart, joint, nil
}

// SaveManifest implements Store.
func (s *SQLiteStore) SaveManifest(events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin manifest write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM manifest`); err != nil {
		return fmt.Errorf("clear manifest: %w", err)
	}
	for i, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", i, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO manifest (position, event) VALUES (?, ?)
		`, i, data); err != nil {
			return fmt.Errorf("save event %d: %w", i, err)
		}
	}
	// An empty recording still leaves a marker row so LoadManifest can tell
	// "closed with no events" apart from "never closed".
	if len(events) == 0 {
		if _, err := tx.Exec(`INSERT INTO manifest (position, event) VALUES (-1, ?)`, []byte("[]")); err != nil {
			return fmt.Errorf("save empty manifest marker: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit manifest: %w", err)
	}
	return nil
}

// LoadManifest implements Store.
func (s *SQLiteStore) LoadManifest() ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT position, event FROM manifest ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	defer rows.Close()

	var events []Event
	found := false
	for rows.Next() {
		var position int
		var data []byte
		if err := rows.Scan(&position, &data); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		found = true
		if position < 0 {
			continue // empty-manifest marker
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("parse event %d: %w", position, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifest: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: manifest", ErrNotFound)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
