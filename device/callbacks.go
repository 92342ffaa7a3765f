package device

import "time"

// Scan phases reported through Progress.
const (
	// PhaseScanning means blocks are being read and classified
	PhaseScanning = "scanning"

	// PhaseComplete means the address range is exhausted
	PhaseComplete = "complete"
)

// Progress contains information about a running memory scan.
// Passed to ProgressCallback after every block.
type Progress struct {
	// Phase is the current scan phase
	Phase string

	// BlocksRead is the number of block reads issued so far
	BlocksRead int

	// TotalBlocks is the total number of blocks in the scan range
	TotalBlocks int

	// DivesFound is the number of dive records recognized so far
	DivesFound int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// Elapsed is the time since the scan started
	Elapsed time.Duration
}

// ProgressCallback is called after each scanned block to report progress.
// Implementations should return quickly; the scan is paused while the
// callback runs.
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the
// Manager and Scanner. This allows integration with any logging framework.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
