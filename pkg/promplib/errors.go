package promplib

import "errors"

// Sentinel errors for recorder construction and use.
var (
	// ErrNilLearner indicates New() was called without a learner.
	ErrNilLearner = errors.New("learner cannot be nil")

	// ErrNilContext indicates an operation was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")
)
