package classifier

import (
	"net/netip"
	"strconv"
	"strings"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// parsePattern compiles one `{host|*}{@port|*}/{station|hex|*}.thread-spec`
// pattern (§4.C "Pattern syntax") into a matchCriterion with its
// specialised matcher already selected.
func parsePattern(pattern string) (*matchCriterion, error) {
	hostPort, rest, ok := strings.Cut(pattern, "/")
	if !ok {
		return nil, vlbierr.New(vlbierr.KindSyntax, "parsePattern", vlbierr.ErrDatastream)
	}

	host, portStr, hasPort := strings.Cut(hostPort, "@")

	c := &matchCriterion{}
	if host != "*" && host != "" {
		addr, err := netip.ParseAddr(host)
		if err != nil {
			return nil, vlbierr.New(vlbierr.KindSyntax, "parsePattern", err)
		}
		c.matchIP = true
		c.ip = addr
	}
	if hasPort && portStr != "*" {
		p, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return nil, vlbierr.New(vlbierr.KindSyntax, "parsePattern", err)
		}
		c.matchPort = true
		c.port = uint16(p)
	}

	stationPart, threadPart, ok := strings.Cut(rest, ".")
	if !ok {
		return nil, vlbierr.New(vlbierr.KindSyntax, "parsePattern", vlbierr.ErrDatastream)
	}

	mode, station, err := parseStation(stationPart)
	if err != nil {
		return nil, err
	}
	c.stationMode = mode
	c.station = station

	threads, matchThreads, err := parseThreadSpec(threadPart)
	if err != nil {
		return nil, err
	}
	c.threads = threads
	c.matchThreads = matchThreads

	c.fn = specialisedMatchers[matcherIndex(c.matchIP, c.matchPort, c.stationMode)]
	return c, nil
}

func parseStation(s string) (StationMode, uint16, error) {
	switch {
	case s == "*" || s == "":
		return StationWildcard, 0, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 16)
		if err != nil {
			return 0, 0, vlbierr.New(vlbierr.KindSyntax, "parseStation", err)
		}
		return StationNumeric, uint16(v), nil
	case len(s) == 1:
		return StationOneChar, encodeStationChars(s), nil
	case len(s) == 2:
		return StationTwoChar, encodeStationChars(s), nil
	default:
		return 0, 0, vlbierr.New(vlbierr.KindSyntax, "parseStation", vlbierr.ErrDatastream)
	}
}

// parseThreadSpec parses "*" or a comma list of "N" or "N-M" (§4.C).
func parseThreadSpec(s string) (matchers []ThreadMatcher, matchThreads bool, err error) {
	if s == "*" || s == "" {
		return nil, false, nil
	}
	for _, part := range strings.Split(s, ",") {
		lo, hi, ok := strings.Cut(part, "-")
		low, perr := strconv.ParseUint(lo, 10, 16)
		if perr != nil {
			return nil, false, vlbierr.New(vlbierr.KindSyntax, "parseThreadSpec", perr)
		}
		high := low
		if ok {
			high, perr = strconv.ParseUint(hi, 10, 16)
			if perr != nil {
				return nil, false, vlbierr.New(vlbierr.KindSyntax, "parseThreadSpec", perr)
			}
		}
		matchers = append(matchers, ThreadMatcher{Low: uint16(low), High: uint16(high)})
	}
	return matchers, true, nil
}
