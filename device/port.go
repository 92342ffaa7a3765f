package device

import "io"

// Port is the narrow serial-channel interface the download engine requires.
// The port must already be configured for the IconHD line discipline
// (115200 baud, 8 data bits, even parity, 1 stop bit, no flow control)
// when the Opener returns it.
//
// Read blocks until bytes arrive, the port closes, or an internal poll
// interval elapses; a poll timeout surfaces as (0, nil) and is not an
// error. Closing the port from another goroutine must unblock a pending
// Read with an error.
type Port interface {
	io.ReadWriteCloser

	// SetRTS asserts or deasserts the RTS control line
	SetRTS(level bool) error

	// SetDTR asserts or deasserts the DTR control line
	SetDTR(level bool) error
}

// Opener opens and configures the serial channel at the given path.
// Package serialport provides the standard implementation.
type Opener func(path string) (Port, error)

// State describes the connection state of a Manager.
type State int

const (
	// Disconnected means no channel is open
	Disconnected State = iota

	// Connecting means the bring-up sequence is in progress
	Connecting

	// Connected means the channel is open and commands may be exchanged
	Connected

	// Failed means the last connection attempt failed; see Manager.Err
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}
