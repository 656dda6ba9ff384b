package frameformat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNRZMSelfInverse(t *testing.T) {
	words := []byte{
		0x12, 0x34, 0x56, 0x78,
		0xaa, 0xbb, 0xcc, 0xdd,
		0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff,
	}
	encoded := NRZMEncode(words)
	decoded := NRZMDecode(encoded)
	require.Equal(t, words, decoded)
}

func TestNRZMEncodeFirstWordUnchanged(t *testing.T) {
	words := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	encoded := NRZMEncode(words)
	require.Equal(t, words[:4], encoded[:4])
}
