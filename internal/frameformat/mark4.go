package frameformat

import (
	"github.com/jive-vlbi/vlbid/internal/frameformat/crc"
	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// mark4TimecodeDigits is the BCD digit count: Y DDD HH MM SS sss (§4.A).
const mark4TimecodeDigits = 13

// mark4CRCBits is the CRC12 check width following the timecode.
const mark4CRCBits = 12

// DecodeMark4Timestamp decodes a Mark4 header's 13 BCD timecode digits
// plus CRC12 check (§4.A). timecodeNibbles must hold exactly 13 BCD digit
// nibbles (ceil(13/2)=7 bytes, the low nibble of the 7th byte unused);
// embeddedCRC is the 12-bit CRC read from the header, and crcInput is
// the exact byte range the CRC12 was computed over. currentYear
// disambiguates the recovered decade and trackbitrate selects the
// §4.A 8/16 Mbps digit-validity rule and correction.
func DecodeMark4Timestamp(timecodeNibbles []byte, crcInput []byte, embeddedCRC uint32, currentYear int, trackbitrateMbps float64) (Timestamp, error) {
	digits, err := bcdBytesToDigits(timecodeNibbles)
	if err != nil {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeMark4Timestamp", err)
	}
	if len(digits) < mark4TimecodeDigits {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeMark4Timestamp", vlbierr.ErrInvalidFormatString)
	}
	digits = digits[:mark4TimecodeDigits]

	if trackbitrateMbps == 8 || trackbitrateMbps == 16 {
		last := digits[mark4TimecodeDigits-1]
		if last == 4 || last == 9 {
			return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeMark4Timestamp", vlbierr.ErrInvalidTrackBitrate)
		}
	}

	got := crc.Mark4Table.Compute(crcInput)
	if got != embeddedCRC&((1<<mark4CRCBits)-1) {
		return Timestamp{}, vlbierr.New(vlbierr.KindFormat, "DecodeMark4Timestamp", errf("CRC12 mismatch: got %#x want %#x", got, embeddedCRC))
	}

	year := recoverYear(digits[0], currentYear)
	dayOfYear := int(digitsToInt(digits[1:4]))
	hour := int(digitsToInt(digits[4:6]))
	minute := int(digitsToInt(digits[6:8]))
	second := int(digitsToInt(digits[8:10]))
	millis := int(digitsToInt(digits[10:13]))
	subsecond := NewRational(int64(millis), 1000)

	if trackbitrateMbps == 8 || trackbitrateMbps == 16 {
		correction := NewRational(int64(digits[mark4TimecodeDigits-1]%5), 4000) // 0.25ms * (digit mod 5)
		subsecond = subsecond.Add(correction).Mod1()
	}

	return Timestamp{
		Year: year, DayOfYear: dayOfYear, Hour: hour, Minute: minute, Second: second,
		Subsecond: subsecond,
	}, nil
}

// EncodeMark4Timestamp is DecodeMark4Timestamp's inverse: it packs a
// Timestamp into 13 BCD digits and recomputes the CRC12 over crcInput
// (the caller-assembled header bytes preceding the timecode), so the
// round trip required by §8 holds: decode(encode(t)) == t up to the
// format's time resolution (milliseconds here), and CRC12 recomputes to
// the embedded value.
func EncodeMark4Timestamp(t Timestamp, crcInput []byte) (nibbles []byte, embeddedCRC uint32) {
	millis := int(t.Subsecond.Mod1().Num * 1000 / maxOne(t.Subsecond.Mod1().Den))
	digits := []int{
		t.Year % 10,
	}
	digits = append(digits, splitDigits(t.DayOfYear, 3)...)
	digits = append(digits, splitDigits(t.Hour, 2)...)
	digits = append(digits, splitDigits(t.Minute, 2)...)
	digits = append(digits, splitDigits(t.Second, 2)...)
	digits = append(digits, splitDigits(millis, 3)...)

	nibbles = packBCDDigits(digits)
	embeddedCRC = crc.Mark4Table.Compute(crcInput)
	return nibbles, embeddedCRC
}

func maxOne(v int64) int64 {
	if v == 0 {
		return 1
	}
	return v
}

func splitDigits(v, n int) []int {
	out := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = v % 10
		v /= 10
	}
	return out
}

func packBCDDigits(digits []int) []byte {
	out := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		if i%2 == 0 {
			out[i/2] |= byte(d) << 4
		} else {
			out[i/2] |= byte(d)
		}
	}
	return out
}
