package vbs

import (
	"encoding/binary"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// mk6MagicSync is the little-endian magic at the start of every Mark6
// container file (§3.4).
const mk6MagicSync = 0xfeed6666
const mk6Version = 2

// mk6FileHeaderSize and mk6BlockHeaderSize are both fixed-width,
// little-endian on disk (§3.4): the file header is five int32 fields
// (sync, version, block_size, packet_format, packet_size).
const mk6FileHeaderSize = 20
const mk6BlockHeaderSize = 8

// mk6FileHeader is the fixed header at the start of a Mark6 container
// file (§3.4).
type mk6FileHeader struct {
	Sync         uint32
	Version      uint32
	BlockSize    uint32
	PacketFormat uint32
	PacketSize   uint32
}

func decodeMk6FileHeader(buf []byte) (mk6FileHeader, error) {
	if len(buf) < mk6FileHeaderSize {
		return mk6FileHeader{}, vlbierr.New(vlbierr.KindFormat, "decodeMk6FileHeader", vlbierr.ErrMk6BadHeader)
	}
	h := mk6FileHeader{
		Sync:         binary.LittleEndian.Uint32(buf[0:4]),
		Version:      binary.LittleEndian.Uint32(buf[4:8]),
		BlockSize:    binary.LittleEndian.Uint32(buf[8:12]),
		PacketFormat: binary.LittleEndian.Uint32(buf[12:16]),
		PacketSize:   binary.LittleEndian.Uint32(buf[16:20]),
	}
	if h.Sync != mk6MagicSync || h.Version != mk6Version {
		return mk6FileHeader{}, vlbierr.New(vlbierr.KindFormat, "decodeMk6FileHeader", vlbierr.ErrMk6BadHeader)
	}
	return h, nil
}

func encodeMk6FileHeader(h mk6FileHeader) []byte {
	buf := make([]byte, mk6FileHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], mk6MagicSync)
	binary.LittleEndian.PutUint32(buf[4:8], mk6Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.BlockSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.PacketFormat)
	binary.LittleEndian.PutUint32(buf[16:20], h.PacketSize)
	return buf
}

// mk6BlockHeaderV2 prefixes every data block within a Mark6 container
// (§3.4).
type mk6BlockHeaderV2 struct {
	BlockNumber           uint32
	BlockSizeIncludingHdr uint32
}

func decodeMk6BlockHeader(buf []byte) mk6BlockHeaderV2 {
	return mk6BlockHeaderV2{
		BlockNumber:           binary.LittleEndian.Uint32(buf[0:4]),
		BlockSizeIncludingHdr: binary.LittleEndian.Uint32(buf[4:8]),
	}
}

func encodeMk6BlockHeader(h mk6BlockHeaderV2) []byte {
	buf := make([]byte, mk6BlockHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.BlockNumber)
	binary.LittleEndian.PutUint32(buf[4:8], h.BlockSizeIncludingHdr)
	return buf
}

// Mk6Info is a Mark6 container's header fields plus its full block
// inventory, returned by InspectMk6File.
type Mk6Info struct {
	PacketFormat uint32
	PacketSize   uint32
	BlockSize    uint32
	Blocks       []Mk6BlockInfo
}

// Mk6BlockInfo is one block's position within its container file.
type Mk6BlockInfo struct {
	BlockNumber uint32
	Offset      int64 // file offset of this block's payload
	Size        int64 // payload size, excluding the block header
}

// InspectMk6File opens path, verifies the Mark6 magic/version and walks
// every block header, returning the full header/block inventory without
// going through a mountpoint scan — a standalone inspection of one
// container file (original_source/src/mk6info.cc: "opens a Mark6 file
// and prints its header/block inventory without going through the full
// chain runtime"), exposed for the "vlbid mk6info" CLI verb.
func InspectMk6File(path string) (Mk6Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mk6Info{}, vlbierr.New(vlbierr.KindResource, "InspectMk6File", err)
	}
	defer f.Close()

	hdr, err := readMk6FileHeader(f)
	if err != nil {
		return Mk6Info{}, err
	}

	return Mk6Info{
		PacketFormat: hdr.PacketFormat,
		PacketSize:   hdr.PacketSize,
		BlockSize:    hdr.BlockSize,
		Blocks:       walkMk6Blocks(f),
	}, nil
}

func readMk6FileHeader(f *os.File) (mk6FileHeader, error) {
	hdrBuf := make([]byte, mk6FileHeaderSize)
	if _, err := f.ReadAt(hdrBuf, 0); err != nil {
		return mk6FileHeader{}, vlbierr.New(vlbierr.KindFormat, "readMk6FileHeader", err)
	}
	return decodeMk6FileHeader(hdrBuf)
}

func walkMk6Blocks(f *os.File) []Mk6BlockInfo {
	var blocks []Mk6BlockInfo
	pos := int64(mk6FileHeaderSize)
	blockHdrBuf := make([]byte, mk6BlockHeaderSize)
	for {
		n, err := f.ReadAt(blockHdrBuf, pos)
		if n < mk6BlockHeaderSize || err != nil {
			break
		}
		bh := decodeMk6BlockHeader(blockHdrBuf)
		payloadSize := int64(bh.BlockSizeIncludingHdr) - mk6BlockHeaderSize
		if payloadSize <= 0 {
			break
		}
		blocks = append(blocks, Mk6BlockInfo{
			BlockNumber: bh.BlockNumber,
			Offset:      pos + mk6BlockHeaderSize,
			Size:        payloadSize,
		})
		pos += int64(bh.BlockSizeIncludingHdr)
	}
	return blocks
}

// ScanMk6 scans every mountpoint in parallel for files matching recname,
// verifying the mk6FileHeader magic/version, then walking the block
// headers to produce one FileChunk per block; all chunks from the same
// file share one *os.File (§4.D "Recording scan (Mark6 layout)").
func ScanMk6(mountpoints []Mountpoint, recname string) ([]*FileChunk, error) {
	suffixes := newSuffixMap()
	results := make([][]*FileChunk, len(mountpoints))

	var g errgroup.Group
	for i, mp := range mountpoints {
		i, mp := i, mp
		g.Go(func() error {
			candidates, err := mk6CandidateFiles(mp, recname)
			if err != nil {
				return err
			}
			var chunks []*FileChunk
			for _, path := range candidates {
				found, err := scanOneMk6File(path, mp, recname, suffixes)
				if err != nil {
					return err
				}
				chunks = append(chunks, found...)
			}
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*FileChunk
	for _, chunks := range results {
		all = append(all, chunks...)
	}
	return all, nil
}

func mk6CandidateFiles(mp Mountpoint, recname string) ([]string, error) {
	entries, err := os.ReadDir(string(mp))
	if err != nil {
		return nil, vlbierr.New(vlbierr.KindResource, "ScanMk6", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if len(e.Name()) >= len(recname) && e.Name()[:len(recname)] == recname {
			out = append(out, string(mp)+"/"+e.Name())
		}
	}
	return out, nil
}

func scanOneMk6File(path string, mp Mountpoint, recname string, suffixes *suffixMap) ([]*FileChunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vlbierr.New(vlbierr.KindResource, "ScanMk6", err)
	}

	if _, err := readMk6FileHeader(f); err != nil {
		f.Close()
		return nil, nil // not a Mark6 file; skip rather than fail the whole scan
	}

	suffixID := suffixes.id("")
	var chunks []*FileChunk
	for _, b := range walkMk6Blocks(f) {
		chunks = append(chunks, &FileChunk{
			Stem:        recname,
			Mountpoint:  mp,
			Path:        path,
			ChunkNumber: b.BlockNumber,
			SuffixID:    suffixID,
			Offset:      b.Offset,
			Size:        b.Size,
			file:        f,
			shared:      true,
		})
	}
	return chunks, nil
}
