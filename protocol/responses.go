package protocol

import (
	"fmt"
	"strings"
)

// ParseFrame validates the framing of a raw response buffer and returns the
// interior payload.
//
// Response frame structure:
//
//	[ACK][DATA...][END]
//
// The returned slice aliases the input buffer; callers that retain the
// payload past the next read must copy it.
func ParseFrame(frame []byte) ([]byte, error) {
	if len(frame) < MinFrameSize {
		return nil, ErrFrameTooShort
	}

	if frame[0] != AckMarker {
		return nil, &UnexpectedHeaderError{Byte: frame[0]}
	}

	if frame[len(frame)-1] != EndMarker {
		return nil, &UnexpectedTrailerError{Byte: frame[len(frame)-1]}
	}

	return frame[1 : len(frame)-1], nil
}

// DeviceInfo contains device identification extracted from the version
// response payload.
type DeviceInfo struct {
	// Product is the device product name (e.g. "Puck Pro")
	Product string

	// Firmware is the firmware revision string
	Firmware string

	// Serial is the unit serial number string
	Serial string
}

// ParseVersionResponse parses the version command response payload.
// Returns device identification information.
//
// Data format (at least VersionResponseSize bytes):
//
//	[...][PRODUCT(16) @64][FIRMWARE(8) @80][SERIAL(12) @88][...]
//
// String fields are ASCII padded with NUL, 0xFF or spaces.
func ParseVersionResponse(data []byte) (*DeviceInfo, error) {
	if len(data) < VersionResponseSize {
		return nil, fmt.Errorf("version payload too short: got %d bytes, expected at least %d",
			len(data), VersionResponseSize)
	}

	info := &DeviceInfo{
		Product:  decodeString(data[ProductNameOffset : ProductNameOffset+ProductNameSize]),
		Firmware: decodeString(data[FirmwareOffset : FirmwareOffset+FirmwareSize]),
		Serial:   decodeString(data[SerialOffset : SerialOffset+SerialSize]),
	}

	return info, nil
}

// decodeString extracts a printable ASCII string from a fixed-size padded field.
func decodeString(field []byte) string {
	var b strings.Builder
	for _, c := range field {
		if c < 0x20 || c > 0x7E {
			break
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
