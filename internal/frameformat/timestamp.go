package frameformat

import "fmt"

// Timestamp is a decoded VLBI frame time: calendar fields plus an exact
// sub-second Rational (§3.1, §3.2). Subsecond is UnknownSubsecond when
// it could not be determined; a DBE-style Mark5B frame's zeroed
// sub-second field decodes as a known zero.
type Timestamp struct {
	Year      int
	DayOfYear int // 1..366
	Hour      int
	Minute    int
	Second    int
	Subsecond Rational
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%03dT%02d:%02d:%02d+%s", t.Year, t.DayOfYear, t.Hour, t.Minute, t.Second, t.Subsecond)
}

// Equal compares two timestamps for exact equality, including
// Subsecond's reduced-fraction representation.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Year == o.Year && t.DayOfYear == o.DayOfYear && t.Hour == o.Hour &&
		t.Minute == o.Minute && t.Second == o.Second && t.Subsecond == o.Subsecond
}

// AddFrames returns t with n frame-periods of period added to its
// sub-second field, wrapping whole seconds forward (§8 "combine
// correctness": subsecond = first.subsecond + elapsed_frames *
// frame_period mod 1s).
func (t Timestamp) AddFrames(n int64, period Rational) Timestamp {
	if t.Subsecond.IsUnknown() || period.IsUnknown() {
		return t
	}
	elapsed := NewRational(period.Num*n, period.Den)
	sum := t.Subsecond.Add(elapsed)
	wholeSeconds := sum.Num / sum.Den
	frac := sum.Mod1()
	out := t
	out.Subsecond = frac
	out.addSeconds(wholeSeconds)
	return out
}

// addSeconds advances the calendar fields by whole seconds (may be
// negative), carrying through minute/hour/day/year.
func (t *Timestamp) addSeconds(n int64) {
	if n == 0 {
		return
	}
	total := int64(t.Second) + int64(t.Minute)*60 + int64(t.Hour)*3600 + n
	daysAdd := total / 86400
	rem := total % 86400
	if rem < 0 {
		rem += 86400
		daysAdd--
	}
	t.Second = int(rem % 60)
	t.Minute = int((rem / 60) % 60)
	t.Hour = int(rem / 3600)
	t.DayOfYear += int(daysAdd)
	for t.DayOfYear > daysInYear(t.Year) {
		t.DayOfYear -= daysInYear(t.Year)
		t.Year++
	}
	for t.DayOfYear < 1 {
		t.Year--
		t.DayOfYear += daysInYear(t.Year)
	}
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// recoverYear picks the decade whose last digit matches lastDigit and
// whose resulting year is <= currentYear (§4.A Mark4 timestamp: "the
// year is recovered by picking the decade whose last-digit matches and
// whose year <= current year").
func recoverYear(lastDigit, currentYear int) int {
	for y := currentYear; y >= currentYear-90; y-- {
		if y%10 == lastDigit {
			return y
		}
	}
	return currentYear
}

// recoverFullMJD returns the MJD whose last three digits match tmjd that
// lies nearest to referenceMJD, choosing among the candidates in the
// 1000-day window containing referenceMJD and its two neighbours (§4.A
// VLBA/Mark5B timestamp).
func recoverFullMJD(tmjd, referenceMJD int) int {
	base := (referenceMJD / 1000) * 1000
	candidates := []int{base + tmjd, base + tmjd - 1000, base + tmjd + 1000}
	best := candidates[0]
	bestDelta := abs(candidates[0] - referenceMJD)
	for _, c := range candidates[1:] {
		if d := abs(c - referenceMJD); d < bestDelta {
			best, bestDelta = c, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MJDToCalendar converts a Modified Julian Day to (year, day-of-year),
// using the standard MJD epoch 1858-11-17.
func MJDToCalendar(mjd int) (year, dayOfYear int) {
	// Julian Day Number from MJD.
	jdn := mjd + 2400001
	// Richards' algorithm (proleptic Gregorian), integer arithmetic only.
	f := jdn + 1401 + (((4*jdn+274277)/146097)*3)/4 - 38
	e := 4*f + 3
	g := (e % 1461) / 4
	h := 5*g + 2
	day := (h%153)/5 + 1
	month := (h/153+2)%12 + 1
	y := e/1461 - 4716 + (14-month)/12

	// Convert (y, month, day) to day-of-year.
	doy := day
	for m := 1; m < month; m++ {
		doy += daysInMonth(y, m)
	}
	return y, doy
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// CalendarToMJD is MJDToCalendar's inverse.
func CalendarToMJD(year, dayOfYear int) int {
	// Binary-search-free direct formula via Julian Day Number for
	// Jan 1 of year, then add dayOfYear-1.
	y := year
	m := 1
	d := 1
	a := (14 - m) / 12
	yy := y + 4800 - a
	mm := m + 12*a - 3
	jdn := d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
	jan1MJD := jdn - 2400001
	return jan1MJD + dayOfYear - 1
}
