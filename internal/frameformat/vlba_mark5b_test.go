package frameformat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncatedTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Year: 2023, DayOfYear: 200, Hour: 5, Minute: 6, Second: 7, Subsecond: NewRational(4500, 10000)}
	crcInput := []byte{0xde, 0xad, 0xbe, 0xef}

	bcd, embeddedCRC := EncodeTruncatedTimestamp(ts, crcInput)
	decoded, err := DecodeTruncatedTimestamp(bcd, crcInput, embeddedCRC, CalendarToMJD(2023, 200))
	require.NoError(t, err)

	require.Equal(t, ts.Year, decoded.Year)
	require.Equal(t, ts.DayOfYear, decoded.DayOfYear)
	require.Equal(t, ts.Hour, decoded.Hour)
	require.Equal(t, ts.Minute, decoded.Minute)
	require.Equal(t, ts.Second, decoded.Second)
	require.InDelta(t, ts.Subsecond.Float64(), decoded.Subsecond.Float64(), 1e-4)
}

func TestMJDCalendarRoundTrip(t *testing.T) {
	for _, tc := range []struct{ year, doy int }{
		{2000, 1}, {2024, 60}, {2024, 366}, {1999, 365}, {2100, 1},
	} {
		mjd := CalendarToMJD(tc.year, tc.doy)
		y, d := MJDToCalendar(mjd)
		require.Equal(t, tc.year, y, tc)
		require.Equal(t, tc.doy, d, tc)
	}
}

func TestRecoverFullMJDPicksNearestWindow(t *testing.T) {
	ref := CalendarToMJD(2024, 1)
	tmjd := ref % 1000
	require.Equal(t, ref, recoverFullMJD(tmjd, ref))
}

func TestRefineMark5BSubsecondHandlesWraparound(t *testing.T) {
	period := NewRational(1, 3200) // 312.5us frames => 3200 frames/s
	ts := Timestamp{Year: 2024, DayOfYear: 1, Subsecond: UnknownSubsecond}

	noWrap := RefineMark5BSubsecond(ts, 100, 50, period)
	require.InDelta(t, 100.0/3200.0, noWrap.Subsecond.Float64(), 1e-9)

	wrapped := RefineMark5BSubsecond(ts, 5, (1<<15)-10, period)
	want := float64(5+(1<<15)) / 3200.0
	want -= float64(int(want)) // mod 1
	require.InDelta(t, want, wrapped.Subsecond.Float64(), 1e-9)
}
