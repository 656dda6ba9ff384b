// Package classifier implements the datastream classifier (spec.md §4.C):
// compiling user-defined match patterns into a fast matcher table and
// mapping incoming VDIF packet tuples to named output streams.
package classifier

import "net/netip"

// VDIFKey identifies an incoming VDIF frame's origin for classification
// purposes (§3.3).
type VDIFKey struct {
	StationID uint16
	ThreadID  uint16
	Origin    netip.AddrPort
}

// StationMode discriminates how a pattern's station field was written,
// which selects one of the four station-match variants in the 16-entry
// specialised-matcher table (§3.3, §4.C).
type StationMode int

const (
	// StationWildcard matches any station ("*").
	StationWildcard StationMode = iota
	// StationNumeric matches a literal 16-bit station id ("0xHHHH").
	StationNumeric
	// StationOneChar matches a single-ASCII-character station id.
	StationOneChar
	// StationTwoChar matches a two-ASCII-character station id.
	StationTwoChar
)

// encodeStationChars packs up to two ASCII characters into the same u16
// layout a numeric station id would occupy, so StationOneChar/
// StationTwoChar can compare against VDIFKey.StationID directly: high
// byte first character (or 0 if one-char), low byte second.
func encodeStationChars(s string) uint16 {
	switch len(s) {
	case 1:
		return uint16(s[0])
	case 2:
		return uint16(s[0])<<8 | uint16(s[1])
	default:
		return 0
	}
}
