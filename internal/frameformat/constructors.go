package frameformat

import "github.com/jive-vlbi/vlbid/internal/vlbierr"

// Mark4 constants: the sync word is 4*ntrack bytes of 0xFF at the start
// of the header, ahead of the 13-BCD-digit timecode (§3.1, §4.A).
const (
	mark4SyncWordBytesPerTrack = 4
	mark4TimecodeTracks        = 4 // BCD timecode occupies 4 header "rows" per track-group
)

// NewMark4 builds a Descriptor for Mark4, ntrack must be a power of two
// in [1,64].
func NewMark4(ntrack int, trackbitrate Rational) (Descriptor, error) {
	return newTapeDescriptor(Mark4, ntrack, trackbitrate)
}

// NewMark4ST builds a Descriptor for straight-through (NRZ-M-encoded)
// Mark4.
func NewMark4ST(ntrack int, trackbitrate Rational) (Descriptor, error) {
	return newTapeDescriptor(Mark4ST, ntrack, trackbitrate)
}

// NewVLBA builds a Descriptor for VLBA.
func NewVLBA(ntrack int, trackbitrate Rational) (Descriptor, error) {
	return newTapeDescriptor(VLBA, ntrack, trackbitrate)
}

// NewVLBAST builds a Descriptor for straight-through VLBA.
func NewVLBAST(ntrack int, trackbitrate Rational) (Descriptor, error) {
	return newTapeDescriptor(VLBAST, ntrack, trackbitrate)
}

// NewMark5B builds a Descriptor for Mark5B. Mark5B's "ntrack" is the
// bitstream-mask population count; headersize is fixed regardless of
// ntrack (the header carries a 32-bit bitstream mask, not per-track
// interleaving), so ntrack is recorded for bitrate bookkeeping only.
func NewMark5B(ntrack int, trackbitrate Rational) (Descriptor, error) {
	if ntrack <= 0 || ntrack > 64 || ntrack&(ntrack-1) != 0 {
		return Descriptor{}, vlbierr.New(vlbierr.KindSyntax, "NewMark5B", vlbierr.ErrInvalidNumberOfTracks)
	}
	const headerSize = 16
	const payloadSize = 10000 - headerSize
	d := Descriptor{
		Variant:        Mark5B,
		Ntrack:         ntrack,
		TrackBitrate:   trackbitrate,
		SyncWord:       []byte{0xed, 0xde, 0xad, 0xab}, // 0xABADDEED, little-endian on the wire
		SyncWordSize:   4,
		SyncWordOffset: 0,
		HeaderSize:     headerSize,
		FrameSize:      10000,
		PayloadSize:    payloadSize,
		PayloadOffset:  headerSize,
	}
	return d, d.Validate()
}

func newTapeDescriptor(v Variant, ntrack int, trackbitrate Rational) (Descriptor, error) {
	if ntrack <= 0 || ntrack > 64 || ntrack&(ntrack-1) != 0 {
		return Descriptor{}, vlbierr.New(vlbierr.KindSyntax, "newTapeDescriptor", vlbierr.ErrInvalidNumberOfTracks)
	}
	// Mark4/VLBA frames are 2500 bytes/track (20000 bits/track), of which
	// 20 bytes/track (160 bits/track) is header (including sync + timecode + aux data).
	const bytesPerTrackPerFrame = 2500
	const headerBytesPerTrack = 20
	headerSize := headerBytesPerTrack * ntrack
	frameSize := bytesPerTrackPerFrame * ntrack
	syncWordSize := mark4SyncWordBytesPerTrack * ntrack
	d := Descriptor{
		Variant:        v,
		Ntrack:         ntrack,
		TrackBitrate:   trackbitrate,
		SyncWord:       repeatByte(0xff, syncWordSize),
		SyncWordSize:   syncWordSize,
		SyncWordOffset: 0,
		HeaderSize:     headerSize,
		FrameSize:      frameSize,
		PayloadSize:    frameSize - headerSize,
		PayloadOffset:  headerSize,
	}
	return d, d.Validate()
}

// NewVDIF builds a Descriptor for a standard (32-byte header) VDIF
// stream. dataframeLength is the total frame size in bytes (must be a
// multiple of 8), channels is the per-thread channel count (power of two
// encoded as log2 in the header), bitsPerSample is 1..32.
func NewVDIF(dataframeLength, channels, bitsPerSample int, complexSamples bool) (Descriptor, error) {
	return newVDIFDescriptor(VDIF, 32, dataframeLength, channels, bitsPerSample, complexSamples)
}

// NewVDIFLegacy builds a Descriptor for the legacy (16-byte header) VDIF
// variant.
func NewVDIFLegacy(dataframeLength, channels, bitsPerSample int, complexSamples bool) (Descriptor, error) {
	return newVDIFDescriptor(VDIFLegacy, 16, dataframeLength, channels, bitsPerSample, complexSamples)
}

func newVDIFDescriptor(v Variant, headerSize, frameSize, channels, bitsPerSample int, complexSamples bool) (Descriptor, error) {
	if frameSize <= headerSize || frameSize%8 != 0 {
		return Descriptor{}, vlbierr.New(vlbierr.KindSyntax, "newVDIFDescriptor", vlbierr.ErrInvalidFormatString)
	}
	if channels <= 0 || channels&(channels-1) != 0 {
		return Descriptor{}, vlbierr.New(vlbierr.KindSyntax, "newVDIFDescriptor", vlbierr.ErrInvalidNumberOfTracks)
	}
	if complexSamples {
		v = VDIFComplex
		if headerSize == 16 {
			v = VDIFLegacy
		}
	}
	d := Descriptor{
		Variant:       v,
		Ntrack:        channels,
		TrackBitrate:  UnknownRational,
		HeaderSize:    headerSize,
		FrameSize:     frameSize,
		PayloadSize:   frameSize - headerSize,
		PayloadOffset: headerSize,
		NumChannels:   channels,
		BitsPerSample: bitsPerSample,
		Complex:       complexSamples,
	}
	return d, d.Validate()
}

func repeatByte(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
