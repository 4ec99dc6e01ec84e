// Package config loads session settings for recording and replay tools.
package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// Backend names accepted by Settings.Backend.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// Sentinel errors for settings validation.
var (
	// ErrUnknownBackend indicates Settings.Backend names no known store backend.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Settings configures a recording or replay session.
type Settings struct {
	// DatasetRoot is the directory holding the numbered dataset folders.
	DatasetRoot string `yaml:"dataset_root" json:"dataset_root"`

	// DatasetID selects the dataset to open. Negative means auto-select
	// the first free id.
	DatasetID int `yaml:"dataset_id" json:"dataset_id"`

	// Backend selects the payload store: "files" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`

	// KeepTargets controls replay target policy: true replays each demo
	// into the primitive it originally joined, false lets the learner
	// re-place every demo.
	KeepTargets bool `yaml:"keep_targets" json:"keep_targets"`

	// Refining enables post-process refining during replayed goals.
	Refining bool `yaml:"refining" json:"refining"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the settings used when a field is absent from the file.
func Default() Settings {
	return Settings{
		DatasetRoot: ".",
		DatasetID:   -1,
		Backend:     BackendFiles,
		KeepTargets: true,
		Refining:    true,
		LogLevel:    "info",
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendFiles, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	if _, err := s.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (s Settings) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}
