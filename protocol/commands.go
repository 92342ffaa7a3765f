package protocol

import "encoding/binary"

// EncodeCommand constructs a command frame for the given opcode.
// Parameters, if any, are appended verbatim after the opcode pair; the
// protocol does not mask them.
//
// Frame structure:
//
//	[CMD][CMD ^ 0xA5][PARAMS...]
//
// The returned slice must be written to the device as a single transfer.
// Splitting the opcode pair and the parameter block into separate writes is
// indistinguishable, to the device, from two unrelated commands and causes a
// spontaneous reboot.
func EncodeCommand(opcode byte, params []byte) []byte {
	frame := make([]byte, 0, CommandHeaderSize+len(params))
	frame = append(frame, opcode, opcode^XORMask)
	frame = append(frame, params...)
	return frame
}

// EncodeMemoryRead constructs a memory read command frame for the given
// device address and length.
//
// Frame structure:
//
//	[0xE7][0xE7 ^ 0xA5][ADDR(4, LE)][LEN(4, LE)]
//
// The response payload to this command is exactly length bytes of device
// memory starting at address.
func EncodeMemoryRead(address, length uint32) []byte {
	params := make([]byte, MemoryReadParamSize)
	binary.LittleEndian.PutUint32(params[0:4], address)
	binary.LittleEndian.PutUint32(params[4:8], length)
	return EncodeCommand(CmdMemoryRead, params)
}

// EncodeVersion constructs the device identification command frame.
func EncodeVersion() []byte {
	return EncodeCommand(CmdVersion, nil)
}
