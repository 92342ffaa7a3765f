package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeCommandXORProperty(t *testing.T) {
	// The second byte of every command must be the opcode masked with 0xA5.
	for opcode := 0; opcode < 256; opcode++ {
		frame := EncodeCommand(byte(opcode), nil)

		if len(frame) != CommandHeaderSize {
			t.Fatalf("opcode 0x%02X: frame length = %d, want %d", opcode, len(frame), CommandHeaderSize)
		}
		if frame[1] != frame[0]^XORMask {
			t.Errorf("opcode 0x%02X: frame[1] = 0x%02X, want 0x%02X", opcode, frame[1], frame[0]^XORMask)
		}
	}
}

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		params []byte
		want   []byte
	}{
		{
			name:   "version command",
			opcode: CmdVersion,
			params: nil,
			want:   []byte{0xC2, 0x67},
		},
		{
			name:   "memory read opcode pair",
			opcode: CmdMemoryRead,
			params: nil,
			want:   []byte{0xE7, 0x42},
		},
		{
			name:   "parameters appended verbatim",
			opcode: CmdMemoryRead,
			params: []byte{0x01, 0xA5, 0xFF},
			want:   []byte{0xE7, 0x42, 0x01, 0xA5, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := EncodeCommand(tt.opcode, tt.params)
			if !bytes.Equal(frame, tt.want) {
				t.Errorf("frame = % 02X, want % 02X", frame, tt.want)
			}
		})
	}
}

func TestEncodeMemoryRead(t *testing.T) {
	tests := []struct {
		name       string
		address    uint32
		length     uint32
		wantParams []byte
	}{
		{
			name:       "address and length little-endian",
			address:    0x000112C8,
			length:     256,
			wantParams: []byte{0xC8, 0x12, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00},
		},
		{
			name:       "zero address",
			address:    0,
			length:     256,
			wantParams: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00},
		},
		{
			name:       "full 32-bit values",
			address:    0xDEADBEEF,
			length:     0x00010000,
			wantParams: []byte{0xEF, 0xBE, 0xAD, 0xDE, 0x00, 0x00, 0x01, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := EncodeMemoryRead(tt.address, tt.length)

			if len(frame) != CommandHeaderSize+MemoryReadParamSize {
				t.Fatalf("frame length = %d, want %d", len(frame), CommandHeaderSize+MemoryReadParamSize)
			}

			if frame[0] != CmdMemoryRead || frame[1] != CmdMemoryRead^XORMask {
				t.Errorf("opcode pair = % 02X, want % 02X",
					frame[:2], []byte{CmdMemoryRead, CmdMemoryRead ^ XORMask})
			}

			if !bytes.Equal(frame[2:], tt.wantParams) {
				t.Errorf("params = % 02X, want % 02X", frame[2:], tt.wantParams)
			}
		})
	}
}

func TestEncodeVersion(t *testing.T) {
	if !bytes.Equal(EncodeVersion(), EncodeCommand(CmdVersion, nil)) {
		t.Errorf("EncodeVersion() = % 02X, want % 02X", EncodeVersion(), EncodeCommand(CmdVersion, nil))
	}
}
