// Package protocol implements the Mares IconHD serial communication protocol.
//
// This package provides functions to build command frames and parse response
// frames for the IconHD protocol family (Icon HD, Puck Pro, Smart and related
// models). The protocol is undocumented by the vendor; the framing below was
// reverse engineered from USB-serial captures and cross-checked against
// libdivecomputer's mares_iconhd backend.
//
// # Protocol Overview
//
// The protocol uses a minimal obfuscated framing:
//
//	Command:  [CMD][CMD ^ 0xA5][PARAMS...]
//	Response: [ACK][DATA...][END]
//
// Where:
//   - ACK = Acknowledgment marker (0xAA), first byte of every valid response
//   - END = End marker (0xEA), last byte of every valid response
//   - The second command byte is the opcode XOR-masked with 0xA5
//   - PARAMS are appended verbatim (not masked) and MUST be transmitted in the
//     same write as the opcode pair; the device treats a split transfer as two
//     unrelated commands and reboots
//
// # Command Builders
//
// Use the Encode* functions to create command frames:
//
//	cmd := protocol.EncodeCommand(protocol.CmdVersion, nil)
//	cmd := protocol.EncodeMemoryRead(0x0000A000, 256)
//
// # Response Parsers
//
// Use ParseFrame to validate the framing and extract the payload:
//
//	payload, err := protocol.ParseFrame(raw)
//	if err != nil {
//	    // desync or wrong device; see UnexpectedHeaderError / UnexpectedTrailerError
//	}
//
// Then use the command-specific parsers for payload data:
//
//	info, err := protocol.ParseVersionResponse(payload)
//
// # Error Handling
//
// Framing failures are reported as typed errors so callers can distinguish a
// short read from a marker mismatch:
//   - ErrFrameTooShort: fewer than 2 bytes received
//   - UnexpectedHeaderError: first byte is not the ACK marker
//   - UnexpectedTrailerError: last byte is not the END marker
package protocol
