package vbs

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// ScanFlexBuff scans every mountpoint in parallel for a FlexBuff/VBS
// recording named recname: directories matching `^recname(_ds<suffix>)?$`,
// and within each, files matching `^recname(_ds<suffix>)?\.[0-9]{8}$`
// (§4.D "Recording scan (FlexBuff/VBS layout)"). Duplicate
// (chunk_number, suffix_id) pairs across mountpoints are rejected.
func ScanFlexBuff(mountpoints []Mountpoint, recname string) ([]*FileChunk, error) {
	dirPattern := regexp.MustCompile(`^` + regexp.QuoteMeta(recname) + `(_ds[^/]+)?$`)
	filePattern := regexp.MustCompile(`^` + regexp.QuoteMeta(recname) + `(_ds[^/.]+)?\.([0-9]{8})$`)

	suffixes := newSuffixMap()
	var mu sync.Mutex
	var chunks []*FileChunk
	seen := make(map[[2]uint32]bool)

	err := forEachMountpoint(mountpoints, func(mp Mountpoint) error {
		entries, err := os.ReadDir(string(mp))
		if err != nil {
			return vlbierr.New(vlbierr.KindResource, "ScanFlexBuff", err)
		}
		for _, dirEntry := range entries {
			if !dirEntry.IsDir() || !dirPattern.MatchString(dirEntry.Name()) {
				continue
			}
			dirPath := filepath.Join(string(mp), dirEntry.Name())
			files, err := os.ReadDir(dirPath)
			if err != nil {
				return vlbierr.New(vlbierr.KindResource, "ScanFlexBuff", err)
			}
			for _, f := range files {
				m := filePattern.FindStringSubmatch(f.Name())
				if m == nil {
					continue
				}
				suffix := m[1]
				chunkNumber, err := strconv.ParseUint(m[2], 10, 32)
				if err != nil {
					continue
				}
				info, err := f.Info()
				if err != nil {
					return vlbierr.New(vlbierr.KindResource, "ScanFlexBuff", err)
				}

				suffixID := suffixes.id(suffix)
				key := [2]uint32{uint32(chunkNumber), suffixID}

				mu.Lock()
				if seen[key] {
					mu.Unlock()
					return vlbierr.New(vlbierr.KindResource, "ScanFlexBuff", vlbierr.ErrDuplicateChunk)
				}
				seen[key] = true
				chunks = append(chunks, &FileChunk{
					Stem:        recname,
					Mountpoint:  mp,
					Path:        filepath.Join(dirPath, f.Name()),
					ChunkNumber: uint32(chunkNumber),
					SuffixID:    suffixID,
					Size:        info.Size(),
				})
				mu.Unlock()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}
