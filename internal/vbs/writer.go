package vbs

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Layout discriminates the on-disk container format a Writer produces
// (§4.D "Striped writing").
type Layout int

const (
	LayoutFlexBuff Layout = iota
	LayoutMk6
)

// Minimum block sizes the format allows (§4.D "Block size is constrained
// to be >= the format-specific minimum").
const (
	MinBlockSizeFlexBuff = 128 << 20
	MinBlockSizeMk6      = 8 << 20
)

// Chunk is one unit of data handed to the writer by the chunk-maker
// upstream step (§4.D "chunk_type{data, suffix_id, chunk_number,
// target_name}").
type Chunk struct {
	Data        []byte
	SuffixID    uint32
	ChunkNumber uint32
	TargetName  string
}

// Writer fans data out across a fixed subset of mountpoints per worker,
// rotating the target mountpoint on chunk-size boundaries (§4.D "Striped
// writing": "writer is a fan-out step with N worker threads, each bound
// to a subset of mountpoints").
type Writer struct {
	layout     Layout
	blockSize  int64
	frameSize  int64 // 0 if the format is not yet known
	workers    []*writerWorker
	nextWorker uint64
	mk6Header  mk6FileHeader
}

type writerWorker struct {
	mountpoints []Mountpoint
	cursor      int

	mu           sync.Mutex
	currentFile  *os.File
	currentPath  string
	bytesWritten int64
}

// NewWriter partitions mountpoints evenly across nworkers and validates
// blockSize against the layout's minimum, rounding down to a whole number
// of frames when frameSize is known (§4.D "an integer number of frames
// when the format is known").
func NewWriter(layout Layout, mountpoints []Mountpoint, nworkers int, blockSize int64, frameSize int64) (*Writer, error) {
	min := int64(MinBlockSizeFlexBuff)
	if layout == LayoutMk6 {
		min = MinBlockSizeMk6
	}
	if blockSize < min {
		return nil, vlbierr.New(vlbierr.KindSyntax, "NewWriter", fmt.Errorf("block size %d below format minimum %d", blockSize, min))
	}
	if frameSize > 0 {
		blockSize = (blockSize / frameSize) * frameSize
	}
	if nworkers <= 0 {
		nworkers = 1
	}
	if nworkers > len(mountpoints) {
		nworkers = len(mountpoints)
	}

	workers := make([]*writerWorker, nworkers)
	for i := range workers {
		workers[i] = &writerWorker{cursor: -1}
	}
	for i, mp := range mountpoints {
		w := workers[i%nworkers]
		w.mountpoints = append(w.mountpoints, mp)
	}

	return &Writer{
		layout:    layout,
		blockSize: blockSize,
		frameSize: frameSize,
		workers:   workers,
		mk6Header: mk6FileHeader{BlockSize: uint32(blockSize)},
	}, nil
}

// Write dispatches chunk to one worker (round-robin), which writes it to
// its currently-selected mountpoint, rotating to the next mountpoint in
// its subset once blockSize bytes have accumulated in the current file
// (§4.D "each worker writes to its currently-selected mountpoint,
// rotating on chunk-size boundaries").
func (w *Writer) Write(chunk Chunk) error {
	idx := atomic.AddUint64(&w.nextWorker, 1) % uint64(len(w.workers))
	return w.workers[idx].write(w, chunk)
}

func (ww *writerWorker) write(w *Writer, chunk Chunk) error {
	ww.mu.Lock()
	defer ww.mu.Unlock()

	if ww.currentFile == nil || ww.bytesWritten+int64(len(chunk.Data)) > w.blockSize {
		if ww.currentFile != nil {
			ww.currentFile.Close()
		}
		ww.cursor++
		mp := ww.mountpoints[ww.cursor%len(ww.mountpoints)]
		ww.bytesWritten = 0
		if mp == NullMountpoint {
			ww.currentFile = nil
			ww.currentPath = ""
		} else {
			path := fmt.Sprintf("%s/%s", mp, chunk.TargetName)
			f, err := os.Create(path)
			if err != nil {
				return vlbierr.New(vlbierr.KindResource, "Writer.write", err)
			}
			ww.currentFile = f
			ww.currentPath = path
			if w.layout == LayoutMk6 {
				if _, err := f.Write(encodeMk6FileHeader(w.mk6Header)); err != nil {
					return vlbierr.New(vlbierr.KindResource, "Writer.write", err)
				}
			}
		}
	}

	if ww.currentFile == nil {
		return nil // null mountpoint discards writes
	}

	if w.layout == LayoutMk6 {
		bh := encodeMk6BlockHeader(mk6BlockHeaderV2{
			BlockNumber:           chunk.ChunkNumber,
			BlockSizeIncludingHdr: uint32(mk6BlockHeaderSize + len(chunk.Data)),
		})
		if _, err := ww.currentFile.Write(bh); err != nil {
			return vlbierr.New(vlbierr.KindResource, "Writer.write", err)
		}
	}
	if _, err := ww.currentFile.Write(chunk.Data); err != nil {
		return vlbierr.New(vlbierr.KindResource, "Writer.write", err)
	}
	ww.bytesWritten += int64(len(chunk.Data))
	return nil
}

// Close flushes and closes every worker's current output file.
func (w *Writer) Close() error {
	var firstErr error
	for _, ww := range w.workers {
		ww.mu.Lock()
		if ww.currentFile != nil {
			if err := ww.currentFile.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			ww.currentFile = nil
		}
		ww.mu.Unlock()
	}
	return firstErr
}
