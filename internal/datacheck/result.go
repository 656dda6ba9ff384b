// Package datacheck implements the scan-check / data-check engine
// (spec.md §4.B): sampling a byte range, recognising the wire format,
// and combining partial probes into one consistent descriptor.
package datacheck

import "github.com/jive-vlbi/vlbid/internal/frameformat"

// Result is a best-effort description of what was found in a sampled
// byte range (§3.2).
type Result struct {
	Format       frameformat.Variant
	Ntrack       int
	Threads      int // VDIF thread count; 1 for tape formats
	TrackBitrate frameformat.Rational

	ByteOffset  int64 // offset to the first complete frame
	FrameSize   int
	DataSize    int64 // size of the sampled data area this result covers
	FrameNumber int64 // frame number within its second
	Time        frameformat.Timestamp

	// VDIFThreads holds the observed (thread-id -> header) pairs for
	// VDIF probes (§3.2).
	VDIFThreads map[uint16]frameformat.VDIFHeader

	TVG            bool // Mark5A test-vector-generator or StreamStor fill pattern detected
	DBENoSubsecond bool // Mark5B frame with a zeroed sub-second field

	MissingBytes int64
}

// Partial reports whether trackbitrate or the timestamp's sub-second
// field is unknown (§3.2 "A result is partial if either trackbitrate or
// subsecond is unknown").
func (r Result) Partial() bool {
	return r.TrackBitrate.IsUnknown() || r.Time.Subsecond.IsUnknown()
}
