package datacheck

import (
	"github.com/jive-vlbi/vlbid/internal/frameformat"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// candidateNtracks and candidateRatesMbps are the tape-family search
// spaces tried in priority order by FindDataFormat (§4.B step 1: "a
// hard-coded priority list of candidate (format, ntrack, rate) tuples").
var (
	candidateNtracks   = []int{32, 16, 64, 8, 4, 2, 1}
	candidateRatesMbps = []float64{32, 16, 64, 8, 128, 4, 2, 256, 512, 1024}
)

// Options configures FindDataFormat.
type Options struct {
	// CurrentYear disambiguates Mark4's recovered decade.
	CurrentYear int
	// ReferenceMJD disambiguates VLBA/Mark5B's recovered full MJD.
	ReferenceMJD int
}

// FindDataFormat samples budget bytes at offset 0 and tries, in priority
// order: VDIF; then Mark5B, VLBA, Mark4 at each candidate (ntrack, rate);
// then NRZ-M straight-through variants; then a Mark5B probe with unknown
// trackbitrate (DBE data lacking subsecond); finally Mark5A TVG and
// StreamStor fill pattern (§4.B step 1).
func FindDataFormat(r Reader, budget int64, opt Options) (Result, error) {
	n := budget
	if n > r.Len() {
		n = r.Len()
	}
	buf := make([]byte, n)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return Result{}, vlbierr.New(vlbierr.KindResource, "FindDataFormat", err)
	}

	if res, ok := probeVDIFAt(buf, 0, opt); ok {
		return res, nil
	}

	for _, variant := range []frameformat.Variant{frameformat.Mark5B, frameformat.VLBA, frameformat.Mark4} {
		for _, ntrack := range candidateNtracks {
			for _, rate := range candidateRatesMbps {
				if res, ok := probeTapeAt(buf, 0, variant, ntrack, rate, opt); ok {
					return res, nil
				}
			}
		}
	}

	// NRZ-M straight-through retry.
	decoded := frameformat.NRZMDecode(buf)
	for _, variant := range []frameformat.Variant{frameformat.Mark5B, frameformat.VLBA, frameformat.Mark4} {
		st := variant
		switch variant {
		case frameformat.VLBA:
			st = frameformat.VLBAST
		case frameformat.Mark4:
			st = frameformat.Mark4ST
		}
		for _, ntrack := range candidateNtracks {
			for _, rate := range candidateRatesMbps {
				if res, ok := probeTapeAt(decoded, 0, st, ntrack, rate, opt); ok {
					return res, nil
				}
			}
		}
	}

	// Mark5B with unknown trackbitrate, accommodating DBE data lacking a
	// usable subsecond field.
	if res, ok := probeTapeAt(buf, 0, frameformat.Mark5B, 32, 0, opt); ok {
		res.TrackBitrate = frameformat.UnknownRational
		res.DBENoSubsecond = true
		return res, nil
	}

	if res, ok := probeMark5ATVG(buf); ok {
		return res, nil
	}
	if res, ok := probeStreamStorFill(buf); ok {
		return res, nil
	}

	return Result{}, vlbierr.New(vlbierr.KindFormat, "FindDataFormat", vlbierr.ErrInvalidFormatString)
}

// IsDataFormat probes buf (a byte range not necessarily at the start of
// the recording) for the already-recognised format (§4.B step 3). The
// returned ByteOffset is relative to the start of buf; it is not adjusted
// to an absolute position in the recording.
func IsDataFormat(buf []byte, known Result, opt Options) (Result, bool) {
	if known.Format.IsVDIF() {
		res, ok := probeVDIFAt(buf, 0, opt)
		return res, ok
	}
	return probeTapeAt(buf, 0, known.Format, known.Ntrack, known.TrackBitrate.Float64()/1e6, opt)
}
