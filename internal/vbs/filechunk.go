package vbs

import "os"

// FileChunk is one physical piece of a striped recording (§3.4). For
// FlexBuff/VBS chunks file is private to the chunk and closed when the
// cursor moves past it; for Mark6 chunks file is shared across every
// chunk read from the same container and must not be closed until the
// whole openfile closes.
type FileChunk struct {
	Stem       string
	Mountpoint Mountpoint
	Path       string

	ChunkNumber uint32
	SuffixID    uint32

	Offset int64 // byte offset within Path where this chunk's payload starts
	Size   int64

	LogicalOffset int64 // assigned once chunks are combined into an openfile

	file   *os.File
	shared bool
}

// sortKey is the (chunk_number, suffix_id) ordering key used to combine
// chunks into an openfile (§3.4 "the ordering key is (chunk_number,
// suffix_id)").
func (c *FileChunk) sortKey() (uint32, uint32) { return c.ChunkNumber, c.SuffixID }

func (c *FileChunk) open() error {
	if c.file != nil {
		return nil
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	c.file = f
	return nil
}

// close closes the chunk's file descriptor unless it is shared with
// sibling chunks (Mark6), in which case the openfile closes it once on
// its own teardown (§4.D "Close").
func (c *FileChunk) close() error {
	if c.file == nil || c.shared {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
