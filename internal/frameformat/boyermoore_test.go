package frameformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindSyncWordLocatesKnownOffset(t *testing.T) {
	pattern := bytes.Repeat([]byte{0xff}, 16)
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	const k = 73
	copy(buf[k:], pattern)

	got := FindSyncWord(buf, pattern, 0)
	require.Equal(t, k, got)
}

func TestFindSyncWordNoMatch(t *testing.T) {
	pattern := bytes.Repeat([]byte{0xff}, 8)
	buf := make([]byte, 64)
	require.Equal(t, -1, FindSyncWord(buf, pattern, 0))
}

func TestFindAllSyncWords(t *testing.T) {
	pattern := []byte{0xde, 0xad, 0xbe, 0xef}
	var buf []byte
	buf = append(buf, 0, 1, 2)
	buf = append(buf, pattern...)
	buf = append(buf, 9, 9, 9)
	buf = append(buf, pattern...)

	got := FindAllSyncWords(buf, pattern)
	require.Equal(t, []int{3, 10}, got)
}
