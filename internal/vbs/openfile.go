package vbs

import (
	"io"
	"os"
	"sort"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// OpenFile presents a set of discovered chunks as one seekable logical
// file (§3.4 "openfile"). Chunks are sorted by (chunk_number, suffix_id)
// and assigned contiguous logical offsets.
type OpenFile struct {
	chunks  []*FileChunk
	size    int64
	pointer int64
	cursor  int // index into chunks; len(chunks) means "at end"
}

// Open combines chunks into an OpenFile (§4.D "Virtual-file opening").
func Open(chunks []*FileChunk) *OpenFile {
	sorted := append([]*FileChunk(nil), chunks...)
	sort.Slice(sorted, func(i, j int) bool {
		ni, si := sorted[i].sortKey()
		nj, sj := sorted[j].sortKey()
		if ni != nj {
			return ni < nj
		}
		return si < sj
	})

	var running int64
	for _, c := range sorted {
		c.LogicalOffset = running
		running += c.Size
	}

	return &OpenFile{chunks: sorted, size: running}
}

// Size returns the virtual file's total logical size.
func (f *OpenFile) Size() int64 { return f.size }

// chunkContaining returns the index of the chunk whose logical range
// contains offset, or len(f.chunks) if offset is at or past the end
// (§3.4 invariant: "cursor.logical_offset <= file_pointer <
// cursor.logical_offset + cursor.size, or cursor = end").
func (f *OpenFile) chunkContaining(offset int64) int {
	for i, c := range f.chunks {
		if offset >= c.LogicalOffset && offset < c.LogicalOffset+c.Size {
			return i
		}
	}
	return len(f.chunks)
}

// Read reads up to len(p) bytes starting at the current pointer, stopping
// at a chunk boundary or physical EOF and returning what was obtained
// (§4.D "Read").
func (f *OpenFile) Read(p []byte) (int, error) {
	if f.pointer >= f.size {
		return 0, io.EOF
	}
	idx := f.chunkContaining(f.pointer)
	if idx >= len(f.chunks) {
		return 0, io.EOF
	}
	c := f.chunks[idx]
	if err := c.open(); err != nil {
		return 0, vlbierr.New(vlbierr.KindResource, "OpenFile.Read", err)
	}

	remainingInChunk := c.LogicalOffset + c.Size - f.pointer
	want := int64(len(p))
	if want > remainingInChunk {
		want = remainingInChunk
	}

	physicalOffset := c.Offset + (f.pointer - c.LogicalOffset)
	n, err := c.file.ReadAt(p[:want], physicalOffset)
	f.pointer += int64(n)

	if f.pointer >= c.LogicalOffset+c.Size {
		f.advancePastChunk(idx)
	}
	if err != nil && err != io.EOF {
		return n, vlbierr.New(vlbierr.KindResource, "OpenFile.Read", err)
	}
	return n, nil
}

// advancePastChunk closes chunk idx (unless its fd is shared) once the
// pointer has moved past it (§4.D "Read": "on chunk boundary close the
// current chunk's fd ... do not close" for the Mark6 shared case).
func (f *OpenFile) advancePastChunk(idx int) {
	f.chunks[idx].close()
	f.cursor = idx + 1
}

// Seek implements io.Seeker with SEEK_SET/CUR/END semantics, locating the
// destination chunk by linear scan and closing the previous cursor chunk
// if it changed (§4.D "Seek").
func (f *OpenFile) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pointer + offset
	case io.SeekEnd:
		target = f.size + offset
	default:
		return 0, vlbierr.New(vlbierr.KindSyntax, "OpenFile.Seek", vlbierr.ErrInvalidFormatString)
	}
	if target < 0 {
		return 0, vlbierr.New(vlbierr.KindSyntax, "OpenFile.Seek", vlbierr.ErrNegativeSeek)
	}

	oldIdx := f.chunkContaining(f.pointer)
	newIdx := f.chunkContaining(target)
	if oldIdx != newIdx && oldIdx < len(f.chunks) {
		f.chunks[oldIdx].close()
	}

	f.pointer = target
	f.cursor = newIdx
	return f.pointer, nil
}

// Close destructs the OpenFile: FlexBuff chunks' private descriptors are
// closed individually; Mark6 descriptors are shared across chunks from
// the same file so each is closed exactly once (§4.D "Close").
func (f *OpenFile) Close() error {
	var firstErr error
	sharedClosed := make(map[*os.File]bool)
	for _, c := range f.chunks {
		if c.file == nil {
			continue
		}
		if c.shared {
			if sharedClosed[c.file] {
				continue
			}
			sharedClosed[c.file] = true
		}
		if err := c.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.file = nil
	}
	return firstErr
}
