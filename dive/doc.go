// Package dive decodes raw IconHD log memory into structured dive records.
//
// # Record Layout
//
// A stored dive record is a length-prefixed run of device memory:
//
//	[LENGTH(4, LE)][SAMPLES...][HEADER(92)]
//
// The 92-byte header sits at the END of the record, LENGTH bytes from the
// record start. Samples are fixed 8-byte entries immediately after the length
// prefix. There is no record count anywhere in memory that can be trusted, so
// records are discovered by scanning memory and probing each candidate block
// with DecodeLength.
//
// # Decoding
//
//	length, ok := dive.DecodeLength(block)
//	header, err := dive.DecodeHeader(record, length)
//	samples := dive.DecodeSamples(record, header)
//
// Decoding is tolerant at the tail: a record whose sample area was only
// partially read still yields a header plus the samples that fit. It is
// strict at the head: an implausible length prefix or an out-of-range
// timestamp rejects the candidate entirely, because during a memory scan
// most candidates are not records at all.
package dive
