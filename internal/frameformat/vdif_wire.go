package frameformat

import (
	"encoding/binary"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// VDIF headers are little-endian on the wire, four (legacy) or eight
// (standard) 32-bit words.
var vdifByteOrder = binary.LittleEndian

// DecodeVDIFHeader unpacks the first 16 (legacy) or 32 (standard) bytes
// of a VDIF frame.
func DecodeVDIFHeader(buf []byte) (VDIFHeader, error) {
	if len(buf) < 16 {
		return VDIFHeader{}, vlbierr.New(vlbierr.KindFormat, "DecodeVDIFHeader", vlbierr.ErrInvalidFormatString)
	}
	w0 := vdifByteOrder.Uint32(buf[0:4])
	w1 := vdifByteOrder.Uint32(buf[4:8])
	w2 := vdifByteOrder.Uint32(buf[8:12])
	w3 := vdifByteOrder.Uint32(buf[12:16])

	h := VDIFHeader{
		Invalid:      w0&(1<<31) != 0,
		Legacy:       w0&(1<<30) != 0,
		EpochSeconds: w0 & 0x3fffffff,
		RefEpoch:     int((w1 >> 24) & 0x3f),
		FrameNumber:  w1 & 0x00ffffff,
		VersionNumber: uint8((w2 >> 29) & 0x7),
		Log2Channels:  uint8((w2 >> 24) & 0x1f),
		FrameLength8:  w2 & 0x00ffffff,
		DataType:      w3&(1<<31) != 0,
		BitsPerSample: uint8((w3>>26)&0x1f) + 1,
		ThreadID:      uint16((w3 >> 16) & 0x3ff),
		StationID:     uint16(w3 & 0xffff),
	}
	if !h.Legacy && len(buf) < 32 {
		return VDIFHeader{}, vlbierr.New(vlbierr.KindFormat, "DecodeVDIFHeader", vlbierr.ErrInvalidFormatString)
	}
	return h, nil
}

// EncodeVDIFHeader is DecodeVDIFHeader's inverse, producing 16 or 32
// header bytes depending on h.Legacy.
func EncodeVDIFHeader(h VDIFHeader) []byte {
	size := 32
	if h.Legacy {
		size = 16
	}
	buf := make([]byte, size)

	var w0 uint32
	if h.Invalid {
		w0 |= 1 << 31
	}
	if h.Legacy {
		w0 |= 1 << 30
	}
	w0 |= h.EpochSeconds & 0x3fffffff

	w1 := (uint32(h.RefEpoch) & 0x3f << 24) | (h.FrameNumber & 0x00ffffff)
	w2 := (uint32(h.VersionNumber)&0x7)<<29 | (uint32(h.Log2Channels)&0x1f)<<24 | (h.FrameLength8 & 0x00ffffff)

	var w3 uint32
	if h.DataType {
		w3 |= 1 << 31
	}
	bps := h.BitsPerSample
	if bps == 0 {
		bps = 1
	}
	w3 |= uint32(bps-1) & 0x1f << 26
	w3 |= uint32(h.ThreadID) & 0x3ff << 16
	w3 |= uint32(h.StationID) & 0xffff

	vdifByteOrder.PutUint32(buf[0:4], w0)
	vdifByteOrder.PutUint32(buf[4:8], w1)
	vdifByteOrder.PutUint32(buf[8:12], w2)
	vdifByteOrder.PutUint32(buf[12:16], w3)
	return buf
}

// ToDescriptor derives a Descriptor from a decoded VDIF header and a
// track bitrate (unknown until the scan-check engine establishes it).
func (h VDIFHeader) ToDescriptor(trackbitrate Rational) Descriptor {
	v := VDIF
	if h.Legacy {
		v = VDIFLegacy
	}
	if h.DataType {
		v = VDIFComplex
	}
	frameSize := int(h.FrameLength8) * 8
	headerSize := 32
	if h.Legacy {
		headerSize = 16
	}
	return Descriptor{
		Variant:       v,
		Ntrack:        1 << h.Log2Channels,
		TrackBitrate:  trackbitrate,
		HeaderSize:    headerSize,
		FrameSize:     frameSize,
		PayloadSize:   frameSize - headerSize,
		PayloadOffset: headerSize,
		NumChannels:   1 << h.Log2Channels,
		BitsPerSample: int(h.BitsPerSample),
		RefEpoch:      h.RefEpoch,
		Complex:       h.DataType,
	}
}
