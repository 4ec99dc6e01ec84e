// Package dataset provides durable storage for recorded demonstration and
// goal sequences: dataset identity on disk, the event manifest, and the
// per-occurrence payload stores.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxAutoID bounds the scan for a free dataset id when auto-selection is
// requested. Ids outside [0, MaxAutoID) are only reachable explicitly.
const MaxAutoID = 100

// Sentinel errors for dataset resolution.
var (
	// ErrExhausted indicates no free dataset id remains in the auto-selection range.
	ErrExhausted = errors.New("dataset ids exhausted")
)

// Dataset is one numbered workspace on disk. At most one live recorder may
// write to it at a time; this is caller discipline, not enforced by locking.
type Dataset struct {
	// ID is the non-negative dataset number.
	ID int
	// Path is the dataset directory, derived deterministically from ID.
	Path string
}

// Path returns the directory for dataset id under root.
func Path(root string, id int) string {
	return filepath.Join(root, fmt.Sprintf("dataset_%d", id))
}

// Resolve claims a dataset under root. An explicit id >= 0 resolves to its
// fixed path whether or not data already exists there, which is how closed
// datasets are reopened for replay. A negative id selects the smallest id in
// [0, MaxAutoID) whose path does not exist yet, or fails with ErrExhausted.
// The dataset directory is created if missing; no files are written.
func Resolve(root string, id int) (*Dataset, error) {
	if id < 0 {
		free, err := nextFreeID(root)
		if err != nil {
			return nil, err
		}
		id = free
	}
	path := Path(root, id)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset directory: %w", err)
	}
	return &Dataset{ID: id, Path: path}, nil
}

func nextFreeID(root string) (int, error) {
	for id := 0; id < MaxAutoID; id++ {
		if _, err := os.Stat(Path(root, id)); os.IsNotExist(err) {
			return id, nil
		}
	}
	return 0, ErrExhausted
}
