// Package frameformat implements bit-exact header codecs for the VLBI
// wire/tape formats (Mark4, VLBA, Mark5B, VDIF), sync-word search and
// NRZ-M reversal (spec.md §3.1, §4.A). Decoders are free functions taking
// (Descriptor, bytes) rather than methods that close over mutable state,
// per the "cyclic graphs of frame-format objects" design note: Descriptor
// is a data-only tagged variant, not a self-referential object.
package frameformat

import (
	"fmt"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Variant discriminates the wire-format family (§3.1).
type Variant int

const (
	Mark4 Variant = iota
	VLBA
	Mark5B
	Mark4ST // Mark4 straight-through (NRZ-M encoded on the wire)
	VLBAST  // VLBA straight-through
	VDIF
	VDIFLegacy
	VDIFComplex
)

func (v Variant) String() string {
	switch v {
	case Mark4:
		return "Mark4"
	case VLBA:
		return "VLBA"
	case Mark5B:
		return "Mark5B"
	case Mark4ST:
		return "Mark4-st"
	case VLBAST:
		return "VLBA-st"
	case VDIF:
		return "VDIF"
	case VDIFLegacy:
		return "VDIF-legacy"
	case VDIFComplex:
		return "VDIF-complex"
	default:
		return "unknown"
	}
}

// IsVDIF reports whether v is any of the VDIF family members.
func (v Variant) IsVDIF() bool {
	return v == VDIF || v == VDIFLegacy || v == VDIFComplex
}

// IsStraightThrough reports whether v requires NRZ-M reversal before
// header interpretation.
func (v Variant) IsStraightThrough() bool {
	return v == Mark4ST || v == VLBAST
}

// IsTapeFamily reports whether v is Mark4/VLBA/Mark5B (track-based,
// ntrack a power of two) as opposed to VDIF (per-thread channel count).
func (v Variant) IsTapeFamily() bool {
	return !v.IsVDIF()
}

// Descriptor is a data-only description of a wire-format family; it
// carries no behaviour and no back-references, so it is safe to copy and
// compare by value (§3.1).
type Descriptor struct {
	Variant Variant

	// Ntrack is the track count (power of two, 1..64) for tape formats,
	// or the per-thread channel count for VDIF.
	Ntrack int

	// TrackBitrate is bits/second/track; UnknownRational if not yet
	// determined.
	TrackBitrate Rational

	SyncWord       []byte
	SyncWordSize   int
	SyncWordOffset int

	HeaderSize    int
	FrameSize     int
	PayloadSize   int
	PayloadOffset int

	// VDIF-only attributes; zero for tape formats.
	NumChannels int // channel count, 2^(log2 field of the VDIF header)
	BitsPerSample int
	RefEpoch      int // half-years since 2000-01-01, from the header
	Complex       bool
}

// FrameRate returns frames/second as a Rational, derived from
// TrackBitrate and the format's fixed per-frame bit budget. Unknown if
// TrackBitrate is unknown.
func (d Descriptor) FrameRate() Rational {
	if d.TrackBitrate.IsUnknown() || d.FrameSize == 0 {
		return UnknownRational
	}
	bitsPerFrame := int64(d.FrameSize) * 8
	switch {
	case d.Variant.IsVDIF():
		// VDIF ntrack is channels-per-thread; the wire bitrate already
		// reflects a single thread's payload rate.
		return NewRational(d.TrackBitrate.Num*int64(d.Ntrack), d.TrackBitrate.Den*bitsPerFrame/8*8)
	default:
		totalBits := d.TrackBitrate.Num * int64(d.Ntrack)
		return NewRational(totalBits, d.TrackBitrate.Den*bitsPerFrame)
	}
}

// FramePeriod returns 1/FrameRate, the time span of one frame.
func (d Descriptor) FramePeriod() Rational {
	fr := d.FrameRate()
	if fr.IsUnknown() || fr.Num == 0 {
		return UnknownRational
	}
	return NewRational(fr.Den, fr.Num)
}

// Validate checks the invariants of §3.1: framesize = headersize +
// payloadsize; syncword fits before headersize ends; tape-family ntrack
// is a power of two; VDIF header size is 16 (legacy) or 32 (standard).
func (d Descriptor) Validate() error {
	if d.FrameSize != d.HeaderSize+d.PayloadSize {
		return vlbierr.New(vlbierr.KindFormat, "Descriptor.Validate",
			errf("framesize %d != headersize %d + payloadsize %d", d.FrameSize, d.HeaderSize, d.PayloadSize))
	}
	if d.SyncWordOffset+d.SyncWordSize > d.HeaderSize {
		return vlbierr.New(vlbierr.KindFormat, "Descriptor.Validate", errf("syncword does not fit in header"))
	}
	if d.Variant.IsTapeFamily() {
		if d.Ntrack <= 0 || d.Ntrack > 64 || d.Ntrack&(d.Ntrack-1) != 0 {
			return vlbierr.New(vlbierr.KindFormat, "Descriptor.Validate", vlbierr.ErrInvalidNumberOfTracks)
		}
	}
	if d.Variant.IsVDIF() {
		want := 32
		if d.Variant == VDIFLegacy {
			want = 16
		}
		if d.HeaderSize != want {
			return vlbierr.New(vlbierr.KindFormat, "Descriptor.Validate",
				errf("VDIF headersize %d != expected %d", d.HeaderSize, want))
		}
	}
	return nil
}

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
