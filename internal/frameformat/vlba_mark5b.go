package frameformat

import (
	"github.com/jive-vlbi/vlbid/internal/frameformat/crc"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// mark5bFrameCounterBits is the width of Mark5B's binary data-frame-number
// field; VLBA has no equivalent field (its frame number is derived from
// elapsed frames since the last whole second) so it is not shared here.
const mark5bFrameCounterBits = 15

// DecodeTruncatedTimestamp decodes the whole-second part shared by VLBA
// and Mark5B: truncated MJD (3 BCD digits) + integer seconds (5 BCD
// digits) + 1e-4-second digits (4 BCD digits), followed by a CRC16
// (§4.A "VLBA/Mark5B timestamp"). The same decoder serves both formats
// and takes no byte-order parameter: bcdDigitBytes is decoded in the
// order given, most-significant nibble first, for VLBA and Mark5B alike;
// the CRC16 is passed separately as embeddedCRC.
func DecodeTruncatedTimestamp(bcdDigitBytes []byte, crcInput []byte, embeddedCRC uint16, referenceMJD int) (ts Timestamp, err error) {
	digits, err := bcdBytesToDigits(bcdDigitBytes)
	if err != nil {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeTruncatedTimestamp", err)
	}
	if len(digits) < 12 {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeTruncatedTimestamp", vlbierr.ErrInvalidFormatString)
	}
	digits = digits[:12]

	got := crc.VLBATable.Compute(crcInput)
	if uint16(got) != embeddedCRC {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeTruncatedTimestamp", errf("CRC16 mismatch: got %#x want %#x", got, embeddedCRC))
	}

	tmjd := int(digitsToInt(digits[0:3]))
	secOfDay := int(digitsToInt(digits[3:8]))
	tenthMillis := int(digitsToInt(digits[8:12])) // units of 1e-4 s

	fullMJD := recoverFullMJD(tmjd, referenceMJD)
	year, dayOfYear := MJDToCalendar(fullMJD)

	return Timestamp{
		Year:      year,
		DayOfYear: dayOfYear,
		Hour:      secOfDay / 3600,
		Minute:    (secOfDay / 60) % 60,
		Second:    secOfDay % 60,
		Subsecond: NewRational(int64(tenthMillis), 10000),
	}, nil
}

// EncodeTruncatedTimestamp packs a Timestamp into the shared VLBA/Mark5B
// whole-second BCD field and recomputes the CRC16 over crcInput, the
// inverse of DecodeTruncatedTimestamp.
func EncodeTruncatedTimestamp(t Timestamp, crcInput []byte) (bcdDigitBytes []byte, embeddedCRC uint16) {
	mjd := CalendarToMJD(t.Year, t.DayOfYear)
	tmjd := mjd % 1000
	secOfDay := t.Hour*3600 + t.Minute*60 + t.Second
	frac := t.Subsecond.Mod1()
	tenthMillis := 0
	if !frac.IsUnknown() {
		tenthMillis = int(frac.Num * 10000 / maxOne(frac.Den))
	}

	digits := append(splitDigits(tmjd, 3), splitDigits(secOfDay, 5)...)
	digits = append(digits, splitDigits(tenthMillis, 4)...)
	bcdDigitBytes = packBCDDigits(digits)
	embeddedCRC = uint16(crc.VLBATable.Compute(crcInput))
	return bcdDigitBytes, embeddedCRC
}

// RefineMark5BSubsecond replaces a Mark5B timestamp's sub-second field
// with frameNumber*framePeriod, the post-hoc refinement required because
// the BCD field alone only carries 1e-4s resolution while frame periods
// can be finer (§4.A). prevFrameNumber, if >= 0, lets the caller detect
// the 15-bit counter wrapping within a single integer second: if
// frameNumber < prevFrameNumber the counter wrapped, and the counter's
// full range of 2^15 frames is added back so elapsed time stays
// monotonic.
func RefineMark5BSubsecond(ts Timestamp, frameNumber, prevFrameNumber int, framePeriod Rational) Timestamp {
	if framePeriod.IsUnknown() {
		return ts
	}
	n := frameNumber
	if prevFrameNumber >= 0 && frameNumber < prevFrameNumber {
		n += 1 << mark5bFrameCounterBits
	}
	out := ts
	out.Subsecond = NewRational(framePeriod.Num*int64(n), framePeriod.Den).Mod1()
	return out
}
