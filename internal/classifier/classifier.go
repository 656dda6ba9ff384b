package classifier

import (
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// datastream is an ordered list of match_criterion alternatives plus a
// name template containing {station}/{thread} placeholders (§3.3).
type datastream struct {
	namePattern string
	criteria    []*matchCriterion
}

// Classifier maps VDIF keys to datastream ids and expanded names, with a
// read-mostly cache protected by a RWMutex so concurrent frame-tagging
// goroutines rarely block each other (§4.C "Classification").
type Classifier struct {
	mu sync.RWMutex

	streams []datastream

	keyCache  map[VDIFKey]int
	nameToID  map[string]int
	idToName  map[int]string
	nextID    int
	knownName map[string]bool // guards against duplicate datastream names
}

// New returns an empty Classifier ready for Define calls.
func New() *Classifier {
	return &Classifier{
		keyCache:  make(map[VDIFKey]int),
		nameToID:  make(map[string]int),
		idToName:  make(map[int]string),
		knownName: make(map[string]bool),
	}
}

// Define compiles patterns into match criteria and registers a new
// datastream under namePattern, appended after any previously defined
// streams so earlier definitions take classification priority (§4.C
// step 2, "iterate defined datastreams in insertion order"). Redefining
// an existing name raises datastreamexception (§4.C "Failure").
func (c *Classifier) Define(namePattern string, patterns []string) error {
	if len(patterns) == 0 {
		return vlbierr.New(vlbierr.KindSyntax, "Classifier.Define", vlbierr.ErrDatastream)
	}
	criteria := make([]*matchCriterion, 0, len(patterns))
	for _, p := range patterns {
		crit, err := parsePattern(p)
		if err != nil {
			return err
		}
		criteria = append(criteria, crit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.knownName[namePattern] {
		return vlbierr.New(vlbierr.KindSyntax, "Classifier.Define", vlbierr.ErrDatastream)
	}
	c.knownName[namePattern] = true
	c.streams = append(c.streams, datastream{namePattern: namePattern, criteria: criteria})
	return nil
}

// Classify maps key to its datastream id and expanded name (§4.C
// "Classification"): a cache hit returns immediately; otherwise the
// defined datastreams are scanned in order, the winning pattern's name
// is expanded and interned, and both caches are populated.
func (c *Classifier) Classify(key VDIFKey) (id int, name string, err error) {
	c.mu.RLock()
	if id, ok := c.keyCache[key]; ok {
		name := c.idToName[id]
		c.mu.RUnlock()
		return id, name, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.keyCache[key]; ok {
		return id, c.idToName[id], nil
	}

	for _, ds := range c.streams {
		if !lo.SomeBy(ds.criteria, func(crit *matchCriterion) bool { return crit.Matches(key) }) {
			continue
		}
		expanded := expandName(ds.namePattern, key)
		id, ok := c.nameToID[expanded]
		if !ok {
			c.nextID++
			id = c.nextID
			c.nameToID[expanded] = id
			c.idToName[id] = expanded
		}
		c.keyCache[key] = id
		return id, expanded, nil
	}

	return 0, "", vlbierr.New(vlbierr.KindSyntax, "Classifier.Classify", vlbierr.ErrDatastream)
}

// expandName substitutes {station} and {thread} in pattern with key's
// actual values (§4.C step 3).
func expandName(pattern string, key VDIFKey) string {
	r := strings.NewReplacer(
		"{station}", formatStation(key.StationID),
		"{thread}", fmt.Sprintf("%d", key.ThreadID),
	)
	return r.Replace(pattern)
}

// formatStation renders a station id the way it was most likely
// written: two printable ASCII characters if both bytes are printable,
// one if only the low byte is set and printable, otherwise hex.
func formatStation(station uint16) string {
	hi := byte(station >> 8)
	lo := byte(station & 0xff)
	switch {
	case hi != 0 && isPrintableASCII(hi) && isPrintableASCII(lo):
		return string([]byte{hi, lo})
	case hi == 0 && isPrintableASCII(lo):
		return string([]byte{lo})
	default:
		return fmt.Sprintf("0x%04X", station)
	}
}

func isPrintableASCII(b byte) bool { return b >= 0x20 && b < 0x7f }
