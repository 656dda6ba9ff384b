package vbs

import (
	"os"
	"regexp"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// scanSuffixes is the fixed a..z then A..Z alphabet scanname suffixes are
// drawn from (§4.D "Scan name management").
var scanSuffixes = func() []byte {
	var out []byte
	for c := byte('a'); c <= 'z'; c++ {
		out = append(out, c)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		out = append(out, c)
	}
	return out
}()

// NextScanName scans every mountpoint for pre-existing entries matching
// `^scanname([a-zA-Z])?$` and returns scanname with the least-used
// single-letter suffix appended, failing if all 52 are already in use
// (§4.D "Scan name management").
func NextScanName(mountpoints []Mountpoint, scanname string) (string, error) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(scanname) + `([a-zA-Z])?$`)
	used := make(map[byte]bool)
	baseExists := false

	for _, mp := range mountpoints {
		entries, err := os.ReadDir(string(mp))
		if err != nil {
			return "", vlbierr.New(vlbierr.KindResource, "NextScanName", err)
		}
		for _, e := range entries {
			m := pattern.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			if m[1] == "" {
				baseExists = true
				continue
			}
			used[m[1][0]] = true
		}
	}

	if !baseExists && len(used) == 0 {
		return scanname, nil
	}
	for _, suffix := range scanSuffixes {
		if !used[suffix] {
			return scanname + string(suffix), nil
		}
	}
	return "", vlbierr.New(vlbierr.KindResource, "NextScanName", vlbierr.ErrNoSuffixes)
}
