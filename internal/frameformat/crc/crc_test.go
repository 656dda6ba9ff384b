package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableDeterministic(t *testing.T) {
	data := []byte("jive5ab vlbi header bytes")
	a := Mark4Table.Compute(data)
	b := Mark4Table.Compute(data)
	require.Equal(t, a, b)
	require.Less(t, a, uint32(1<<12))
}

func TestVLBATableWidth(t *testing.T) {
	require.Equal(t, uint(16), VLBATable.Width())
	v := VLBATable.Compute([]byte{0x01, 0x02, 0x03, 0x04})
	require.LessOrEqual(t, v, uint32(0xffff))
}

func TestDifferentDataDifferentCRC(t *testing.T) {
	a := Mark4Table.Compute([]byte{0x00, 0x00, 0x00})
	b := Mark4Table.Compute([]byte{0x00, 0x00, 0x01})
	require.NotEqual(t, a, b)
}
