// Package vbs implements the striped-storage backend (spec.md §4.D):
// mountpoint discovery, FlexBuff/VBS and Mark6 recording scans, a virtual
// seekable file over the discovered chunks, and the striped chunk writer.
package vbs

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Mountpoint is a filesystem path holding recording chunks. NullMountpoint
// is the distinguished mountpoint that discards writes (§3.4).
type Mountpoint string

const NullMountpoint Mountpoint = ""

// DiscoverMountpoints expands each shell-glob pattern to its matching
// directories and filters out any directory whose filesystem is the same
// as "/" — i.e. not a dedicated mounted disk (§4.D "Mountpoint discovery":
// "filter out entries whose deepest matching mount is the root
// filesystem"), using unix.Statfs's filesystem id rather than parsing
// /etc/mtab (supplemented from original_source/, see DESIGN.md).
func DiscoverMountpoints(patterns []string) ([]Mountpoint, error) {
	var candidates []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, vlbierr.New(vlbierr.KindSyntax, "DiscoverMountpoints", err)
		}
		candidates = append(candidates, matches...)
	}

	rootFsid, err := fsid("/")
	if err != nil {
		return nil, vlbierr.New(vlbierr.KindResource, "DiscoverMountpoints", err)
	}

	var out []Mountpoint
	for _, c := range lo.Uniq(candidates) {
		info, err := os.Stat(c)
		if err != nil || !info.IsDir() {
			continue
		}
		id, err := fsid(c)
		if err != nil || id == rootFsid {
			continue
		}
		out = append(out, Mountpoint(c))
	}
	return out, nil
}

func fsid(path string) ([2]int32, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return [2]int32{}, err
	}
	return st.Fsid.Val, nil
}

// forEachMountpoint runs fn concurrently over mountpoints, one goroutine
// per mountpoint (§4.D), waits for all of them and returns the first
// error; the other goroutines are not cancelled when one fails.
func forEachMountpoint(mountpoints []Mountpoint, fn func(Mountpoint) error) error {
	var g errgroup.Group
	for _, mp := range mountpoints {
		mp := mp
		g.Go(func() error { return fn(mp) })
	}
	return g.Wait()
}
