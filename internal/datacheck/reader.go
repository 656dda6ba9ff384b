package datacheck

import "os"

// Reader is the contract the scan-check engine needs from whatever holds
// the candidate recording: a positioned, bounded read (§4.B "given a
// reader (length, positioned read_into(buf, offset, len))").
type Reader interface {
	Len() int64
	ReadAt(buf []byte, offset int64) (int, error)
}

// BytesReader adapts an in-memory byte slice to Reader, used by tests and
// by small command-line inspections.
type BytesReader []byte

func (b BytesReader) Len() int64 { return int64(len(b)) }

func (b BytesReader) ReadAt(buf []byte, offset int64) (int, error) {
	if offset >= int64(len(b)) {
		return 0, nil
	}
	n := copy(buf, b[offset:])
	return n, nil
}

// FileReader adapts an *os.File to Reader, for running the scan-check
// engine against a recording on disk (the "vlbid scan-check" CLI verb)
// without first reading the whole file into memory.
type FileReader struct {
	f    *os.File
	size int64
}

// NewFileReader opens path and stats its size.
func NewFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileReader{f: f, size: info.Size()}, nil
}

func (r *FileReader) Len() int64 { return r.size }

func (r *FileReader) ReadAt(buf []byte, offset int64) (int, error) {
	n, err := r.f.ReadAt(buf, offset)
	if n > 0 {
		return n, nil
	}
	return n, err
}

// Close releases the underlying file.
func (r *FileReader) Close() error { return r.f.Close() }
