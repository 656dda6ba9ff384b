package datacheck

import (
	"encoding/binary"

	"github.com/jive-vlbi/vlbid/internal/frameformat"
)

// frameInfoWordSize is the 4-byte word immediately following the
// syncword in every tape-format header this engine recognises: the high
// 16 bits carry the frame number within the second, the low 16 bits
// carry Mark5B's bitstream mask (ignored for Mark4/VLBA).
const frameInfoWordSize = 4

// probeTapeAt attempts to recognise a Mark4/VLBA/Mark5B(-straight-
// through) frame at or after byte offset `from` in buf, for a specific
// candidate (variant, ntrack, rate).
func probeTapeAt(buf []byte, from int, variant frameformat.Variant, ntrack int, rateMbps float64, opt Options) (Result, bool) {
	rate := frameformat.UnknownRational
	if rateMbps > 0 {
		rate = frameformat.NewRational(int64(rateMbps*1e6), 1)
	}

	var d frameformat.Descriptor
	var err error
	switch variant {
	case frameformat.Mark5B:
		d, err = frameformat.NewMark5B(ntrack, rate)
	case frameformat.VLBA, frameformat.VLBAST:
		d, err = frameformat.NewVLBA(ntrack, rate)
	case frameformat.Mark4, frameformat.Mark4ST:
		d, err = frameformat.NewMark4(ntrack, rate)
	default:
		return Result{}, false
	}
	if err != nil {
		return Result{}, false
	}

	offset := frameformat.FindSyncWord(buf, d.SyncWord, from)
	if offset < 0 {
		return Result{}, false
	}
	timecodeStart := offset + d.SyncWordSize + frameInfoWordSize
	digitBytes := 6
	if variant == frameformat.Mark4 || variant == frameformat.Mark4ST {
		digitBytes = 7
	}
	crcBytes := 2
	if timecodeStart+digitBytes+crcBytes > len(buf) {
		return Result{}, false
	}

	infoWord := binary.LittleEndian.Uint32(buf[offset+d.SyncWordSize : offset+d.SyncWordSize+frameInfoWordSize])
	frameNumber := int64(infoWord >> 16)

	crcInput := buf[offset : offset+d.SyncWordSize+frameInfoWordSize]
	bcd := buf[timecodeStart : timecodeStart+digitBytes]

	var ts frameformat.Timestamp
	if variant == frameformat.Mark4 || variant == frameformat.Mark4ST {
		embeddedCRC := uint32(binary.LittleEndian.Uint16(buf[timecodeStart+digitBytes:timecodeStart+digitBytes+crcBytes])) & 0xfff
		ts, err = frameformat.DecodeMark4Timestamp(bcd, crcInput, embeddedCRC, opt.CurrentYear, rateMbps)
	} else {
		embeddedCRC := binary.LittleEndian.Uint16(buf[timecodeStart+digitBytes : timecodeStart+digitBytes+crcBytes])
		ts, err = frameformat.DecodeTruncatedTimestamp(bcd, crcInput, embeddedCRC, opt.ReferenceMJD)
	}
	if err != nil {
		return Result{}, false
	}

	dbeNoSubsecond := false
	if variant == frameformat.Mark5B {
		if !ts.Subsecond.IsUnknown() && ts.Subsecond.Num == 0 {
			dbeNoSubsecond = true
		}
		if period := d.FramePeriod(); !period.IsUnknown() {
			ts = frameformat.RefineMark5BSubsecond(ts, int(frameNumber), -1, period)
		}
	}

	return Result{
		Format:         variant,
		Ntrack:         ntrack,
		Threads:        1,
		TrackBitrate:   rate,
		ByteOffset:     int64(offset),
		FrameSize:      d.FrameSize,
		FrameNumber:    frameNumber,
		Time:           ts,
		DBENoSubsecond: dbeNoSubsecond,
	}, true
}

// probeVDIFAt checks for a structurally valid VDIF header exactly at
// `from`: version number 0 or 1, a plausible frame length, and collects
// every distinct thread id found across the buffer at that frame size
// (§3.2 "for VDIF the set of observed (thread-id -> header) pairs").
func probeVDIFAt(buf []byte, from int, opt Options) (Result, bool) {
	if from+32 > len(buf) {
		return Result{}, false
	}
	h, err := frameformat.DecodeVDIFHeader(buf[from:])
	if err != nil || h.Invalid {
		return Result{}, false
	}
	frameSize := int(h.FrameLength8) * 8
	if frameSize < 40 || frameSize > 1<<20 || h.VersionNumber > 1 {
		return Result{}, false
	}
	headerSize := 32
	if h.Legacy {
		headerSize = 16
	}
	if frameSize <= headerSize {
		return Result{}, false
	}

	threads := map[uint16]frameformat.VDIFHeader{h.ThreadID: h}
	for pos := from + frameSize; pos+headerSize <= len(buf); pos += frameSize {
		next, err := frameformat.DecodeVDIFHeader(buf[pos:])
		if err != nil || next.Invalid {
			break
		}
		if int(next.FrameLength8)*8 != frameSize {
			break
		}
		threads[next.ThreadID] = next
	}

	d := h.ToDescriptor(frameformat.UnknownRational)
	return Result{
		Format:      d.Variant,
		Ntrack:      d.Ntrack,
		Threads:     len(threads),
		ByteOffset:  int64(from),
		FrameSize:   frameSize,
		FrameNumber: int64(h.FrameNumber),
		VDIFThreads: threads,
	}, true
}

// probeMark5ATVG detects the Mark5A test-vector-generator pattern: a
// fixed linear-feedback-shift-register sequence. Recognised here by its
// defining property — byte n+1 is always byte n rotated left by one bit
// with the top bit inverted, the TVG's generating recurrence.
func probeMark5ATVG(buf []byte) (Result, bool) {
	if len(buf) < 64 {
		return Result{}, false
	}
	matches := 0
	for i := 0; i < 63; i++ {
		want := (buf[i]<<1 | buf[i]>>7) ^ 0x01
		if buf[i+1] == want {
			matches++
		}
	}
	if matches < 60 {
		return Result{}, false
	}
	return Result{Format: frameformat.Mark5B, TVG: true, ByteOffset: 0}, true
}

// probeStreamStorFill detects the StreamStor fill pattern: a repeating
// 0x11223344 32-bit word written by idle/uninitialised StreamStor
// memory.
func probeStreamStorFill(buf []byte) (Result, bool) {
	if len(buf) < 16 {
		return Result{}, false
	}
	want := binary.LittleEndian.Uint32(buf[0:4])
	if want != 0x11223344 {
		return Result{}, false
	}
	for i := 4; i+4 <= len(buf) && i < 256; i += 4 {
		if binary.LittleEndian.Uint32(buf[i:i+4]) != want {
			return Result{}, false
		}
	}
	return Result{Format: frameformat.Mark5B, TVG: true, ByteOffset: 0}, true
}
