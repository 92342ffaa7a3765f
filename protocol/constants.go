package protocol

// Frame structure constants, as observed on the wire.
const (
	// AckMarker is the acknowledgment byte (0xAA) prefixing every valid response
	AckMarker = 0xAA

	// EndMarker is the end byte (0xEA) terminating every valid response
	EndMarker = 0xEA

	// XORMask is combined with the opcode to produce the second command byte
	XORMask = 0xA5

	// MinFrameSize is the minimum response frame size in bytes:
	// ACK(1) + END(1) with an empty payload
	MinFrameSize = 2

	// CommandHeaderSize is the size of the opcode pair preceding any parameters
	CommandHeaderSize = 2
)

// Command opcodes. Only the two below are confirmed for this device family;
// the firmware silently ignores most other values but a few trigger a reboot,
// so unknown opcodes must never be probed against a live unit.
const (
	// CmdVersion requests device identification (model name, firmware, serial)
	CmdVersion = 0xC2

	// CmdMemoryRead streams a region of the device's internal log memory
	CmdMemoryRead = 0xE7
)

// MemoryReadParamSize is the size of the memory read parameter block:
// a 32-bit address and a 32-bit length, both little-endian.
const MemoryReadParamSize = 8

// Version response layout. The payload is at least VersionResponseSize bytes;
// the string fields sit at fixed offsets and are padded with NUL or 0xFF.
// Offsets were confirmed empirically on a Puck Pro and match captures from
// other IconHD-family units.
const (
	// VersionResponseSize is the minimum version payload size (140 bytes)
	VersionResponseSize = 140

	// ProductNameOffset is the offset of the ASCII product name
	ProductNameOffset = 64

	// ProductNameSize is the length of the product name field
	ProductNameSize = 16

	// FirmwareOffset is the offset of the firmware revision string
	FirmwareOffset = 80

	// FirmwareSize is the length of the firmware revision field
	FirmwareSize = 8

	// SerialOffset is the offset of the serial number string
	SerialOffset = 88

	// SerialSize is the length of the serial number field
	SerialSize = 12
)
