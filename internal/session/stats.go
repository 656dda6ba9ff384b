package session

import "sync/atomic"

// Stats holds the atomic counters §5 requires ("statistics counters are
// atomic integers"), read by status queries while a transfer is running
// without taking the session mutex.
type Stats struct {
	BytesTransferred atomic.Int64
	FramesProcessed  atomic.Int64
	FramesDropped    atomic.Int64
	MissingBytes     atomic.Int64
	Errors           atomic.Int64
}

// Snapshot is a point-in-time, non-atomic copy of Stats suitable for
// formatting into a command-protocol reply (§6.1).
type Snapshot struct {
	BytesTransferred int64
	FramesProcessed  int64
	FramesDropped    int64
	MissingBytes     int64
	Errors           int64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		BytesTransferred: s.BytesTransferred.Load(),
		FramesProcessed:  s.FramesProcessed.Load(),
		FramesDropped:    s.FramesDropped.Load(),
		MissingBytes:     s.MissingBytes.Load(),
		Errors:           s.Errors.Load(),
	}
}

func (s *Stats) Reset() {
	s.BytesTransferred.Store(0)
	s.FramesProcessed.Store(0)
	s.FramesDropped.Store(0)
	s.MissingBytes.Store(0)
	s.Errors.Store(0)
}

// ScanMeta is the scan-directory metadata a recording session tracks
// (§4.F): the active scan name, its datastream suffix if any, and the
// mountpoints it is striped across.
type ScanMeta struct {
	ScanName    string
	Suffix      string
	Mountpoints []string
}
