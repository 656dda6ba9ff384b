// Package synth generates bit-exact synthetic frame streams for the
// frameformat and datacheck test suites (§8 "concrete scenarios" call
// for feeding data "generated by the encoder" and checking that
// find_data_format recovers it).
package synth

import (
	"encoding/binary"

	"github.com/jive-vlbi/vlbid/internal/frameformat"
)

// Mark5BStream synthesises n consecutive Mark5B frames at the given
// track count and bitrate, starting at startTime, and returns the raw
// byte stream plus the frame size used.
func Mark5BStream(ntrack int, trackbitrateMbps float64, startTime frameformat.Timestamp, n int) ([]byte, int) {
	d, err := frameformat.NewMark5B(ntrack, frameformat.NewRational(int64(trackbitrateMbps*1e6), 1))
	if err != nil {
		panic(err)
	}
	frameRate := d.FrameRate()
	period := d.FramePeriod()

	buf := make([]byte, 0, n*d.FrameSize)
	ts := startTime
	for i := 0; i < n; i++ {
		frameNum := uint32(0)
		if !frameRate.IsUnknown() && !period.IsUnknown() {
			frameNum = uint32(i) % uint32(frameRate.Num/frameRate.Den)
		}
		buf = append(buf, mark5bFrame(d, ts, frameNum, ntrack)...)
		ts = ts.AddFrames(1, period)
	}
	return buf, d.FrameSize
}

func mark5bFrame(d frameformat.Descriptor, ts frameformat.Timestamp, frameNum uint32, ntrack int) []byte {
	frame := make([]byte, d.FrameSize)
	copy(frame[0:4], d.SyncWord)
	// Header word 2 (offset 4): bitstream mask in the low 16 bits
	// plus the frame number in the high 16 bits, little-endian, matching
	// jive5ab's Mark5B header layout (sync, frame-info, timecode, CRC16).
	binary.LittleEndian.PutUint32(frame[4:8], (frameNum<<16)|(uint32(bitstreamMask(ntrack))&0xffff))

	crcInput := frame[0:8]
	bcd, crc16 := frameformat.EncodeTruncatedTimestamp(ts, crcInput)
	copy(frame[8:14], bcd)
	binary.LittleEndian.PutUint16(frame[14:16], crc16)
	return frame
}

func bitstreamMask(ntrack int) uint32 {
	if ntrack >= 32 {
		return 0xffffffff
	}
	return (uint32(1) << ntrack) - 1
}

// VDIFStream synthesises n standard-header VDIF frames per thread for
// each thread in threadIDs, interleaved round-robin the way a real
// multi-thread capture arrives, each frameSize bytes, channels/bits as
// given, starting at startTime. Returns the concatenated byte stream.
func VDIFStream(frameSize, channels, bitsPerSample int, threadIDs []uint16, stationID uint16, startTime frameformat.Timestamp, framesPerSecond, framesPerThread int) []byte {
	log2ch := 0
	for (1 << log2ch) < channels {
		log2ch++
	}
	frameRate := frameformat.NewRational(int64(framesPerSecond), 1)
	period := frameformat.NewRational(1, int64(framesPerSecond))

	var buf []byte
	for i := 0; i < framesPerThread; i++ {
		ts := startTime.AddFrames(int64(i), period)
		refEpoch, epochSeconds, frameNumber := frameformat.EncodeVDIFTimestamp(ts, frameRate)
		for _, tid := range threadIDs {
			h := frameformat.VDIFHeader{
				RefEpoch:      refEpoch,
				EpochSeconds:  epochSeconds,
				FrameNumber:   frameNumber,
				Log2Channels:  uint8(log2ch),
				FrameLength8:  uint32(frameSize / 8),
				BitsPerSample: uint8(bitsPerSample),
				ThreadID:      tid,
				StationID:     stationID,
			}
			frame := frameformat.EncodeVDIFHeader(h)
			frame = append(frame, make([]byte, frameSize-len(frame))...)
			buf = append(buf, frame...)
		}
	}
	return buf
}
