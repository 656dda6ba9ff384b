package frameformat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMark4TimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Year: 2024, DayOfYear: 137, Hour: 13, Minute: 42, Second: 7, Subsecond: NewRational(250, 1000)}
	crcInput := []byte{0x11, 0x22, 0x33, 0x44}

	nibbles, embeddedCRC := EncodeMark4Timestamp(ts, crcInput)
	decoded, err := DecodeMark4Timestamp(nibbles, crcInput, embeddedCRC, 2024, 32)
	require.NoError(t, err)

	require.Equal(t, ts.Year%10, decoded.Year%10)
	require.Equal(t, ts.DayOfYear, decoded.DayOfYear)
	require.Equal(t, ts.Hour, decoded.Hour)
	require.Equal(t, ts.Minute, decoded.Minute)
	require.Equal(t, ts.Second, decoded.Second)
	require.InDelta(t, ts.Subsecond.Float64(), decoded.Subsecond.Float64(), 0.001)
}

func TestMark4TimestampCRCMismatchRejected(t *testing.T) {
	ts := Timestamp{Year: 2020, DayOfYear: 1, Hour: 0, Minute: 0, Second: 0, Subsecond: NewRational(0, 1000)}
	crcInput := []byte{0xaa}
	nibbles, embeddedCRC := EncodeMark4Timestamp(ts, crcInput)

	_, err := DecodeMark4Timestamp(nibbles, crcInput, embeddedCRC^0xfff, 2020, 32)
	require.Error(t, err)
}

func TestMark4EightMbpsRejectsDigit4And9(t *testing.T) {
	ts := Timestamp{Year: 2020, DayOfYear: 10, Hour: 1, Minute: 1, Second: 1, Subsecond: NewRational(904, 1000)}
	crcInput := []byte{0x00}
	nibbles, embeddedCRC := EncodeMark4Timestamp(ts, crcInput)

	_, err := DecodeMark4Timestamp(nibbles, crcInput, embeddedCRC, 2020, 8)
	require.Error(t, err)

	ts.Subsecond = NewRational(909, 1000)
	nibbles, embeddedCRC = EncodeMark4Timestamp(ts, crcInput)
	_, err = DecodeMark4Timestamp(nibbles, crcInput, embeddedCRC, 2020, 8)
	require.Error(t, err)
}

func TestRecoverYearPicksDecadeAtOrBeforeCurrent(t *testing.T) {
	require.Equal(t, 2024, recoverYear(4, 2024))
	require.Equal(t, 2019, recoverYear(9, 2024))
	require.Equal(t, 2023, recoverYear(3, 2024))
}
