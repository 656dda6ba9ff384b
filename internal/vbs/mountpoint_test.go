package vbs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jive-vlbi/vlbid/internal/vbs"
)

// TestDiscoverMountpointsFiltersRootFilesystem exercises the mount-
// boundary filter (§4.D): a directory under the test's TempDir sits on
// whatever filesystem backs the test runner's temp area, which in a
// container or CI sandbox is ordinarily the same filesystem as "/" — so
// it is expected to be filtered out, matching "filter out entries whose
// deepest matching mount is the root filesystem".
func TestDiscoverMountpointsFiltersRootFilesystem(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "disk0")
	require.NoError(t, os.Mkdir(sub, 0o755))

	mountpoints, err := vbs.DiscoverMountpoints([]string{sub})
	require.NoError(t, err)
	for _, mp := range mountpoints {
		require.NotEqual(t, sub, string(mp), "temp directories on the root filesystem should be filtered")
	}
}

func TestDiscoverMountpointsSkipsNonDirectories(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	mountpoints, err := vbs.DiscoverMountpoints([]string{file})
	require.NoError(t, err)
	require.Empty(t, mountpoints)
}
