package protocol

import (
	"errors"
	"fmt"
)

// ErrFrameTooShort indicates a response buffer smaller than the minimum
// frame size (ACK + END).
var ErrFrameTooShort = errors.New("frame too short: need at least 2 bytes")

// UnexpectedHeaderError indicates that the first byte of a response was not
// the ACK marker. Usually a sign of desync or of talking to the wrong device.
type UnexpectedHeaderError struct {
	// Byte is the value received where the ACK marker was expected
	Byte byte
}

func (e *UnexpectedHeaderError) Error() string {
	return fmt.Sprintf("unexpected frame header: got 0x%02X, expected 0x%02X", e.Byte, AckMarker)
}

// UnexpectedTrailerError indicates that the last byte of a response was not
// the END marker.
type UnexpectedTrailerError struct {
	// Byte is the value received where the END marker was expected
	Byte byte
}

func (e *UnexpectedTrailerError) Error() string {
	return fmt.Sprintf("unexpected frame trailer: got 0x%02X, expected 0x%02X", e.Byte, EndMarker)
}

// IsFrameError returns true if the error is one of the framing errors
// produced by ParseFrame.
func IsFrameError(err error) bool {
	var he *UnexpectedHeaderError
	var te *UnexpectedTrailerError
	return errors.Is(err, ErrFrameTooShort) || errors.As(err, &he) || errors.As(err, &te)
}
