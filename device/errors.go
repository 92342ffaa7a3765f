package device

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates that no response terminator arrived within the
// exchange deadline. The partial receive buffer is discarded.
var ErrTimeout = errors.New("exchange timed out waiting for response")

// ErrBusy indicates an exchange was attempted while another was still in
// flight. Under the single-flight invariant this is a programming error in
// the caller, not a device condition.
var ErrBusy = errors.New("exchange already in flight")

// ErrDisconnected indicates the channel is closed or was closed while an
// exchange was pending.
var ErrDisconnected = errors.New("device is not connected")

// OpenError indicates the serial channel could not be opened.
type OpenError struct {
	// Path is the device path that failed to open
	Path string

	// Err is the underlying transport error
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("device not found at %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
