package frameformat

import "fmt"

// Rational is an exact num/den rational used for track bitrates and
// sub-second time offsets, so repeated frame-rate arithmetic never
// accumulates floating-point error (§3.1, §3.2). A Rational with
// Den == 0 is the distinguished Unknown value.
type Rational struct {
	Num int64
	Den int64
}

// UnknownRational is the distinguished "not yet determined" value for a
// track bitrate or sub-second offset.
var UnknownRational = Rational{}

// UnknownSubsecond is the distinguished sub-second value meaning "the
// sub-second part could not be determined" (§3.2).
var UnknownSubsecond = Rational{}

// NewRational builds a Rational in lowest terms, den must be nonzero.
func NewRational(num, den int64) Rational {
	if den == 0 {
		return UnknownRational
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g == 0 {
		g = 1
	}
	return Rational{Num: num / g, Den: den / g}
}

// IsUnknown reports whether r is the distinguished unknown value.
func (r Rational) IsUnknown() bool { return r.Den == 0 }

// Float64 converts r to a float64; callers needing exactness should stay
// in Rational arithmetic instead.
func (r Rational) Float64() float64 {
	if r.IsUnknown() {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Add returns r+o, both assumed known.
func (r Rational) Add(o Rational) Rational {
	if r.IsUnknown() || o.IsUnknown() {
		return UnknownRational
	}
	return NewRational(r.Num*o.Den+o.Num*r.Den, r.Den*o.Den)
}

// Mod1 returns r modulo 1 (fractional part), keeping r non-negative —
// used when adding elapsed sub-second offsets that may cross a second
// boundary (§8 "combine correctness").
func (r Rational) Mod1() Rational {
	if r.IsUnknown() {
		return UnknownRational
	}
	n := r.Num % r.Den
	if n < 0 {
		n += r.Den
	}
	return NewRational(n, r.Den)
}

func (r Rational) String() string {
	if r.IsUnknown() {
		return "UNKNOWN"
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
