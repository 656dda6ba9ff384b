package classifier

import "net/netip"

// ThreadMatcher is a single thread id, or an inclusive [Low..High] range
// ("N" or "N-M" in a thread-spec, §4.C pattern syntax).
type ThreadMatcher struct {
	Low, High uint16
}

// Matches reports whether thread is within this matcher's range.
func (m ThreadMatcher) Matches(thread uint16) bool {
	return thread >= m.Low && thread <= m.High
}

// matchCriterion is one compiled alternative of a datastream's pattern
// (§3.3): which fields are bound vs wildcard, the bound values, and the
// thread-id list. fn is picked by parsePattern from the 16-entry
// specialised table; the picked function still tests its captured
// "is this field bound" flags on every call.
type matchCriterion struct {
	matchIP      bool
	matchPort    bool
	stationMode  StationMode
	ip           netip.Addr
	port         uint16
	station      uint16 // bound station value; meaningless when stationMode == StationWildcard
	threads      []ThreadMatcher
	matchThreads bool // false only for an all-wildcard thread-spec "*"

	fn matchFunc
}

type matchFunc func(c *matchCriterion, k VDIFKey) bool

// matchThreadList reports whether any of c's thread matchers accepts
// k.ThreadID; shared by every specialised matcher below.
func matchThreadList(c *matchCriterion, k VDIFKey) bool {
	if !c.matchThreads {
		return true
	}
	for _, tm := range c.threads {
		if tm.Matches(k.ThreadID) {
			return true
		}
	}
	return false
}

// specialisedMatchers is the fixed 16-entry table keyed by
// {matchIP, matchPort, stationMode}. Each entry is a buildMatcher closure
// over its combination; the closure tests the captured matchIP/matchPort
// flags and switches on the captured station mode on every call, so
// matching does branch on which fields are bound.
var specialisedMatchers [16]matchFunc

func matcherIndex(matchIP, matchPort bool, mode StationMode) int {
	idx := 0
	if matchIP {
		idx |= 8
	}
	if matchPort {
		idx |= 4
	}
	return idx | int(mode)
}

func init() {
	for ipBit := 0; ipBit < 2; ipBit++ {
		for portBit := 0; portBit < 2; portBit++ {
			for mode := StationWildcard; mode <= StationTwoChar; mode++ {
				matchIP := ipBit == 1
				matchPort := portBit == 1
				specialisedMatchers[matcherIndex(matchIP, matchPort, mode)] = buildMatcher(matchIP, matchPort, mode)
			}
		}
	}
}

func buildMatcher(matchIP, matchPort bool, mode StationMode) matchFunc {
	return func(c *matchCriterion, k VDIFKey) bool {
		if matchIP && k.Origin.Addr() != c.ip {
			return false
		}
		if matchPort && k.Origin.Port() != c.port {
			return false
		}
		switch mode {
		case StationWildcard:
			// no station comparison
		case StationNumeric, StationOneChar, StationTwoChar:
			if k.StationID != c.station {
				return false
			}
		}
		return matchThreadList(c, k)
	}
}

// Matches evaluates the criterion against k using its precomputed
// specialised function.
func (c *matchCriterion) Matches(k VDIFKey) bool {
	return c.fn(c, k)
}
