package dive

import (
	"encoding/binary"
	"time"
)

// DecodeLength probes a candidate block for a record length prefix.
// The first 4 bytes, little-endian, are accepted as a record length only if
// they fall within [MinRecordLength, MaxRecordLength]; anything else means
// the block is not the start of a dive record.
func DecodeLength(block []byte) (uint32, bool) {
	if len(block) < LengthPrefixSize {
		return 0, false
	}

	length := binary.LittleEndian.Uint32(block[0:LengthPrefixSize])
	if length < MinRecordLength || length > MaxRecordLength {
		return 0, false
	}

	return length, true
}

// DecodeHeader extracts the dive header from a record buffer.
// The 92-byte header region ends at recordLength bytes from the start of the
// record, so the buffer must hold at least recordLength bytes. Returns false
// if the buffer is too short or any timestamp component is out of calendar
// bounds; during a memory scan such candidates are noise, not errors.
func DecodeHeader(record []byte, recordLength uint32) (*Header, bool) {
	if recordLength < MinRecordLength || uint32(len(record)) < recordLength {
		return nil, false
	}

	hdr := record[recordLength-HeaderSize : recordLength]

	start, ok := decodeDatetime(hdr[offDatetime : offDatetime+6])
	if !ok {
		return nil, false
	}

	count := int(binary.LittleEndian.Uint16(hdr[offSamples : offSamples+2]))
	interval := time.Duration(binary.LittleEndian.Uint16(hdr[offInterval:offInterval+2])) * time.Second

	salinity := Freshwater
	if hdr[offSalinity]&0x01 != 0 {
		salinity = Saltwater
	}

	h := &Header{
		Number:         binary.LittleEndian.Uint16(hdr[offNumber : offNumber+2]),
		Start:          start,
		Duration:       time.Duration(count) * interval,
		MaxDepth:       decodeDepth(binary.LittleEndian.Uint16(hdr[offMaxDepth : offMaxDepth+2])),
		SampleCount:    count,
		SampleInterval: interval,
		Salinity:       salinity,
		MaxTemp:        decodeTemp(binary.LittleEndian.Uint16(hdr[offMaxTemp : offMaxTemp+2])),
		MinTemp:        decodeTemp(binary.LittleEndian.Uint16(hdr[offMinTemp : offMinTemp+2])),
	}

	return h, true
}

// DecodeSamples extracts the sample series from a record buffer.
// Samples start after the 4-byte length prefix and end at the header region.
// If the buffer holds fewer samples than the header promises, the series is
// truncated rather than rejected: a dive with a partially-read tail is still
// worth reporting.
func DecodeSamples(record []byte, header *Header) []Sample {
	if header == nil || header.SampleCount == 0 {
		return nil
	}
	if len(record) <= LengthPrefixSize+HeaderSize {
		return nil
	}

	// The trailing HeaderSize bytes are always reserved for the header so
	// header bytes are never misread as samples.
	area := record[LengthPrefixSize : len(record)-HeaderSize]

	n := len(area) / SampleSize
	if n > header.SampleCount {
		n = header.SampleCount
	}

	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		raw := area[i*SampleSize : (i+1)*SampleSize]
		rawTemp := binary.LittleEndian.Uint16(raw[2:4]) & 0x0FFF

		samples = append(samples, Sample{
			Offset: time.Duration(i) * header.SampleInterval,
			Depth:  decodeDepth(binary.LittleEndian.Uint16(raw[0:2])),
			Temp:   decodeTemp(rawTemp),
		})
	}

	return samples
}

// DecodeRecord decodes a complete record buffer into a Dive.
// Convenience wrapper over DecodeLength, DecodeHeader and DecodeSamples.
func DecodeRecord(record []byte) (*Dive, bool) {
	length, ok := DecodeLength(record)
	if !ok {
		return nil, false
	}

	header, ok := DecodeHeader(record, length)
	if !ok {
		return nil, false
	}

	return &Dive{
		Header:  *header,
		Samples: DecodeSamples(record[:length], header),
	}, true
}

// decodeDatetime decodes the 6-byte binary timestamp: year offset from 2000,
// month, day, hour, minute, second, one byte each. Out-of-range components
// invalidate the whole record.
func decodeDatetime(raw []byte) (time.Time, bool) {
	year := 2000 + int(raw[0])
	month := int(raw[1])
	day := int(raw[2])
	hour := int(raw[3])
	minute := int(raw[4])
	second := int(raw[5])

	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), true
}

// decodeDepth converts a raw depth value in decimeters to meters.
func decodeDepth(raw uint16) float64 {
	return float64(raw) / 10.0
}

// decodeTemp converts a raw temperature value to degrees Celsius.
func decodeTemp(raw uint16) float64 {
	return (float64(raw) - 100.0) / 10.0
}
