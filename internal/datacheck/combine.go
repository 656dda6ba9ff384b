package datacheck

import (
	"math"

	"github.com/jive-vlbi/vlbid/internal/frameformat"
)

// Combine merges the first and last probe of a scan into a single
// consistent descriptor (§4.B step 5): if both observed a sub-second,
// use them directly; otherwise pick the probe with the maximum frame
// number to constrain a plausible track bitrate, assumed to be a power
// of two times 1e6 bit/s.
func Combine(first, last Result) Result {
	out := last
	out.VDIFThreads = unionThreads(first.VDIFThreads, last.VDIFThreads)
	if len(out.VDIFThreads) > 0 {
		out.Threads = len(out.VDIFThreads)
	}

	if !first.Time.Subsecond.IsUnknown() && !last.Time.Subsecond.IsUnknown() {
		return out
	}

	maxFrameNumber := first.FrameNumber
	constraining := first
	if last.FrameNumber > maxFrameNumber {
		maxFrameNumber = last.FrameNumber
		constraining = last
	}

	byteDiff := last.ByteOffset - first.ByteOffset
	secondsDiff := approximateSecondsDiff(first, last)
	threads := 1
	if first.Format.IsVDIF() {
		threads = maxInt(out.Threads, 1)
	}

	n := inferRateExponent(byteDiff, secondsDiff, out.Ntrack, threads)

	// Refine by the lower bound derived from the constraining probe's
	// frame number: n >= ceil(log2(max_frame_num*8*payload/1e6/ntrack)).
	payload := constraining.FrameSize
	if payload == 0 {
		payload = out.FrameSize
	}
	if maxFrameNumber > 0 && out.Ntrack > 0 {
		lowerBound := math.Ceil(math.Log2(float64(maxFrameNumber) * 8 * float64(payload) / 1e6 / float64(out.Ntrack)))
		if lowerBound > float64(n) {
			n = int(lowerBound)
		}
	}
	if n < -6 {
		n = -6
	}

	rateHz := math.Exp2(float64(n)) * 1e6
	out.TrackBitrate = frameformat.NewRational(int64(rateHz), 1)
	return out
}

// inferRateExponent derives n from round(log2(byte_diff*8 /
// (1e6*ntrack*threads*seconds_diff))), the bitrate being assumed
// 2^n*1e6 bit/s with n >= -6 (§4.B step 5).
func inferRateExponent(byteDiff int64, secondsDiff float64, ntrack, threads int) int {
	if secondsDiff <= 0 || ntrack <= 0 || threads <= 0 || byteDiff <= 0 {
		return -6
	}
	ratio := float64(byteDiff) * 8 / (1e6 * float64(ntrack) * float64(threads) * secondsDiff)
	if ratio <= 0 {
		return -6
	}
	n := int(math.Round(math.Log2(ratio)))
	if n < -6 {
		n = -6
	}
	return n
}

func approximateSecondsDiff(first, last Result) float64 {
	daySpan := dayOfYearSpan(first.Time, last.Time)
	secs := daySpan*86400 +
		(last.Time.Hour-first.Time.Hour)*3600 +
		(last.Time.Minute-first.Time.Minute)*60 +
		(last.Time.Second - first.Time.Second)
	diff := float64(secs)
	if !first.Time.Subsecond.IsUnknown() {
		diff -= first.Time.Subsecond.Float64()
	}
	if !last.Time.Subsecond.IsUnknown() {
		diff += last.Time.Subsecond.Float64()
	}
	return diff
}

func dayOfYearSpan(first, last frameformat.Timestamp) int {
	if first.Year == last.Year {
		return last.DayOfYear - first.DayOfYear
	}
	span := 0
	for y := first.Year; y < last.Year; y++ {
		d := 365
		if isLeap(y) {
			d = 366
		}
		span += d
	}
	return span + last.DayOfYear - first.DayOfYear
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func unionThreads(a, b map[uint16]frameformat.VDIFHeader) map[uint16]frameformat.VDIFHeader {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[uint16]frameformat.VDIFHeader, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ExpectedBytes returns the byte count a recording of the given format
// should occupy over timeSpanSeconds, used by MissingBytes (§4.B step 6).
func ExpectedBytes(d frameformat.Descriptor, timeSpanSeconds float64, threads int) int64 {
	rate := d.FrameRate()
	if rate.IsUnknown() || d.FrameSize == 0 {
		return 0
	}
	framesPerSecond := rate.Float64()
	t := threads
	if t <= 0 {
		t = 1
	}
	return int64(framesPerSecond * timeSpanSeconds * float64(d.FrameSize) * float64(t))
}

// MissingBytes computes expected_bytes(time_span, format, threads) -
// (last.byte_offset + framesize - first.byte_offset); negative values
// indicate a gap in the recording (§4.B step 6).
func MissingBytes(d frameformat.Descriptor, first, last Result) int64 {
	span := approximateSecondsDiff(first, last)
	expected := ExpectedBytes(d, span, maxInt(last.Threads, 1))
	observed := last.ByteOffset + int64(last.FrameSize) - first.ByteOffset
	return expected - observed
}
