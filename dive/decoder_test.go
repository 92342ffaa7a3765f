package dive

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

// buildRecord constructs a synthetic record buffer of the given length with
// the header fields placed at their trailing offsets.
func buildRecord(t *testing.T, length uint32, mutate func(hdr []byte)) []byte {
	t.Helper()

	record := make([]byte, length)
	binary.LittleEndian.PutUint32(record[0:4], length)

	hdr := record[length-HeaderSize : length]
	binary.LittleEndian.PutUint16(hdr[offNumber:], 42)
	// 2024-06-15 10:30:00
	copy(hdr[offDatetime:], []byte{24, 6, 15, 10, 30, 0})
	binary.LittleEndian.PutUint16(hdr[offMaxDepth:], 185)
	binary.LittleEndian.PutUint16(hdr[offSamples:], 2)
	binary.LittleEndian.PutUint16(hdr[offInterval:], 20)
	hdr[offSalinity] = 0x01
	binary.LittleEndian.PutUint16(hdr[offMaxTemp:], 285)
	binary.LittleEndian.PutUint16(hdr[offMinTemp:], 240)

	if mutate != nil {
		mutate(hdr)
	}
	return record
}

func TestDecodeLength(t *testing.T) {
	tests := []struct {
		name   string
		prefix uint32
		want   bool
	}{
		{name: "one byte below minimum", prefix: MinRecordLength - 1, want: false},
		{name: "exactly minimum", prefix: MinRecordLength, want: true},
		{name: "exactly maximum", prefix: MaxRecordLength, want: true},
		{name: "one byte above maximum", prefix: MaxRecordLength + 1, want: false},
		{name: "all-ones erased memory", prefix: 0xFFFFFFFF, want: false},
		{name: "zero", prefix: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := make([]byte, 256)
			binary.LittleEndian.PutUint32(block, tt.prefix)

			length, ok := DecodeLength(block)
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if ok && length != tt.prefix {
				t.Errorf("length = %d, want %d", length, tt.prefix)
			}
		})
	}
}

func TestDecodeLengthShortBlock(t *testing.T) {
	if _, ok := DecodeLength([]byte{0x64, 0x00, 0x00}); ok {
		t.Error("expected short block to be rejected")
	}
}

func TestDecodeHeader(t *testing.T) {
	record := buildRecord(t, 100, nil)

	header, ok := DecodeHeader(record, 100)
	if !ok {
		t.Fatal("expected valid header")
	}

	if header.Number != 42 {
		t.Errorf("Number = %d, want 42", header.Number)
	}
	wantStart := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	if !header.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", header.Start, wantStart)
	}
	if header.Duration != 40*time.Second {
		t.Errorf("Duration = %v, want 40s", header.Duration)
	}
	if header.MaxDepth != 18.5 {
		t.Errorf("MaxDepth = %v, want 18.5", header.MaxDepth)
	}
	if header.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", header.SampleCount)
	}
	if header.SampleInterval != 20*time.Second {
		t.Errorf("SampleInterval = %v, want 20s", header.SampleInterval)
	}
	if header.Salinity != Saltwater {
		t.Errorf("Salinity = %v, want salt", header.Salinity)
	}
	if header.MaxTemp != 18.5 {
		t.Errorf("MaxTemp = %v, want 18.5", header.MaxTemp)
	}
	if header.MinTemp != 14.0 {
		t.Errorf("MinTemp = %v, want 14.0", header.MinTemp)
	}
}

func TestDecodeHeaderInvalidDates(t *testing.T) {
	tests := []struct {
		name     string
		datetime []byte
	}{
		{name: "month 13", datetime: []byte{24, 13, 15, 10, 30, 0}},
		{name: "month 0", datetime: []byte{24, 0, 15, 10, 30, 0}},
		{name: "day 32", datetime: []byte{24, 6, 32, 10, 30, 0}},
		{name: "day 0", datetime: []byte{24, 6, 0, 10, 30, 0}},
		{name: "hour 24", datetime: []byte{24, 6, 15, 24, 30, 0}},
		{name: "minute 60", datetime: []byte{24, 6, 15, 10, 60, 0}},
		{name: "second 60", datetime: []byte{24, 6, 15, 10, 30, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := buildRecord(t, 100, func(hdr []byte) {
				copy(hdr[offDatetime:], tt.datetime)
			})

			if _, ok := DecodeHeader(record, 100); ok {
				t.Error("expected header with invalid timestamp to be rejected")
			}
		})
	}
}

func TestDecodeHeaderTruncatedBuffer(t *testing.T) {
	record := buildRecord(t, 100, nil)

	if _, ok := DecodeHeader(record[:99], 100); ok {
		t.Error("expected truncated buffer to be rejected")
	}
	if _, ok := DecodeHeader(record, MinRecordLength-1); ok {
		t.Error("expected undersized record length to be rejected")
	}
}

func TestDecodeSamples(t *testing.T) {
	// 4-byte prefix + 2 samples + 92-byte header.
	length := uint32(LengthPrefixSize + 2*SampleSize + HeaderSize)
	record := buildRecord(t, length, nil)

	// Sample 0: 5.2 m, raw temp 250 with flag bits in the upper nibble.
	binary.LittleEndian.PutUint16(record[4:], 52)
	binary.LittleEndian.PutUint16(record[6:], 250|0xA000)
	// Sample 1: 18.5 m, raw temp 240.
	binary.LittleEndian.PutUint16(record[12:], 185)
	binary.LittleEndian.PutUint16(record[14:], 240)

	header, ok := DecodeHeader(record, length)
	if !ok {
		t.Fatal("expected valid header")
	}

	samples := DecodeSamples(record, header)
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}

	want := []Sample{
		{Offset: 0, Depth: 5.2, Temp: 15.0},
		{Offset: 20 * time.Second, Depth: 18.5, Temp: 14.0},
	}
	for i, s := range samples {
		if s.Offset != want[i].Offset {
			t.Errorf("sample %d: Offset = %v, want %v", i, s.Offset, want[i].Offset)
		}
		if math.Abs(s.Depth-want[i].Depth) > 1e-9 {
			t.Errorf("sample %d: Depth = %v, want %v", i, s.Depth, want[i].Depth)
		}
		if math.Abs(s.Temp-want[i].Temp) > 1e-9 {
			t.Errorf("sample %d: Temp = %v, want %v", i, s.Temp, want[i].Temp)
		}
	}
}

func TestDecodeSamplesTruncation(t *testing.T) {
	// The header promises 2 samples but the record only has room for none:
	// length 100 leaves a 4-byte sample area, under one full sample.
	record := buildRecord(t, 100, nil)

	header, ok := DecodeHeader(record, 100)
	if !ok {
		t.Fatal("expected valid header")
	}

	samples := DecodeSamples(record, header)
	if len(samples) != 0 {
		t.Errorf("len(samples) = %d, want 0 (truncated tail)", len(samples))
	}
}

func TestDecodeRecord(t *testing.T) {
	length := uint32(LengthPrefixSize + 2*SampleSize + HeaderSize)
	record := buildRecord(t, length, nil)
	binary.LittleEndian.PutUint16(record[4:], 52)
	binary.LittleEndian.PutUint16(record[12:], 185)

	d, ok := DecodeRecord(record)
	if !ok {
		t.Fatal("expected valid record")
	}
	if d.Header.Number != 42 {
		t.Errorf("Number = %d, want 42", d.Header.Number)
	}
	if len(d.Samples) != 2 {
		t.Errorf("len(Samples) = %d, want 2", len(d.Samples))
	}
}

func TestDecodeRecordRejectsNoise(t *testing.T) {
	noise := make([]byte, 256)
	for i := range noise {
		noise[i] = 0xFF
	}

	if _, ok := DecodeRecord(noise); ok {
		t.Error("expected erased-memory block to be rejected")
	}
}
