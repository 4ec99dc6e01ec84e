package promplib

// RecordingCursor holds the per-kind occurrence counters shared by the
// recording and replay paths. Counter value i always indexes the i-th
// occurrence of that kind since the dataset (or current recording epoch)
// began; increments happen after the occurrence is processed.
type RecordingCursor struct {
	// Demo is the next demonstration occurrence index.
	Demo int
	// Goal is the next goal occurrence index.
	Goal int
}

// Reset returns both counters to zero, the baseline Close establishes and
// Play assumes.
func (c *RecordingCursor) Reset() {
	c.Demo = 0
	c.Goal = 0
}
