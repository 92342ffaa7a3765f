package dive

import "time"

// Record layout constants.
const (
	// LengthPrefixSize is the size of the record length prefix (4 bytes)
	LengthPrefixSize = 4

	// HeaderSize is the size of the trailing dive header (92 bytes)
	HeaderSize = 92

	// SampleSize is the size of one depth/temperature sample (8 bytes)
	SampleSize = 8

	// MinRecordLength is the smallest plausible record length prefix
	MinRecordLength = HeaderSize + SampleSize

	// MaxRecordLength is the largest plausible record length prefix
	MaxRecordLength = 65536
)

// Header field offsets within the 92-byte header region.
// Confirmed empirically on a Puck Pro; other family members share the layout.
const (
	offNumber     = 0x00 // uint16 LE, dive sequence number
	offDatetime   = 0x02 // 6 bytes: year-2000, month, day, hour, minute, second
	offMaxDepth   = 0x08 // uint16 LE, decimeters
	offSamples    = 0x0A // uint16 LE, sample count
	offInterval   = 0x0C // uint16 LE, sample interval in seconds
	offSalinity   = 0x0E // byte, bit 0: 0 = fresh, 1 = salt
	offMaxTemp    = 0x10 // uint16 LE, (raw-100)/10 degrees Celsius
	offMinTemp    = 0x12 // uint16 LE, (raw-100)/10 degrees Celsius
)

// Salinity classifies the water type of a dive.
type Salinity int

const (
	// Freshwater indicates the dive was logged in fresh water
	Freshwater Salinity = iota

	// Saltwater indicates the dive was logged in salt water
	Saltwater
)

func (s Salinity) String() string {
	switch s {
	case Freshwater:
		return "fresh"
	case Saltwater:
		return "salt"
	default:
		return "unknown"
	}
}

// Header contains the fixed metadata of one logged dive.
// Values are immutable once decoded.
type Header struct {
	// Number is the dive sequence number assigned by the device
	Number uint16

	// Start is the dive start timestamp (device-local time)
	Start time.Time

	// Duration is the dive duration, derived as SampleCount x SampleInterval
	Duration time.Duration

	// MaxDepth is the maximum depth in meters
	MaxDepth float64

	// SampleCount is the number of samples the device recorded
	SampleCount int

	// SampleInterval is the time between consecutive samples
	SampleInterval time.Duration

	// Salinity is the water type classification
	Salinity Salinity

	// MaxTemp is the maximum water temperature in degrees Celsius
	MaxTemp float64

	// MinTemp is the minimum water temperature in degrees Celsius
	MinTemp float64
}

// Sample is one depth/temperature measurement within a dive.
type Sample struct {
	// Offset is the elapsed time since the dive start
	Offset time.Duration

	// Depth is the depth in meters
	Depth float64

	// Temp is the water temperature in degrees Celsius
	Temp float64
}

// Dive is one fully decoded dive record.
type Dive struct {
	// Header is the dive metadata
	Header Header

	// Samples is the depth/temperature series, ordered by time offset.
	// May be shorter than Header.SampleCount if the record tail was
	// truncated or only partially read.
	Samples []Sample
}
