package vbs

import "sync"

// suffixMap assigns small integers to the "_ds<N>" suffix strings found
// while scanning recordings, so chunks from the same logical suffix across
// mountpoints compare equal (§4.D). Each ScanFlexBuff/ScanMk6 call builds
// its own map, so the ids are stable within one scan, not process-wide.
type suffixMap struct {
	mu   sync.Mutex
	ids  map[string]uint32
	next uint32
}

func newSuffixMap() *suffixMap {
	m := &suffixMap{ids: make(map[string]uint32)}
	m.ids[""] = 0 // the unsuffixed, primary datastream
	m.next = 1
	return m
}

func (m *suffixMap) id(suffix string) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[suffix]; ok {
		return id
	}
	id := m.next
	m.next++
	m.ids[suffix] = id
	return id
}
