package frameformat

import "encoding/binary"

// NRZMDecode reverses Non-Return-to-Zero-Mark line coding on a
// straight-through ("*_st") buffer: out[0] = in[0]; out[i] = in[i] XOR
// in[i-1], word-wise over 32-bit little-endian words (§4.A). The input
// length must be a multiple of 4 bytes.
func NRZMDecode(in []byte) []byte {
	out := make([]byte, len(in))
	var prev uint32
	for i := 0; i+4 <= len(in); i += 4 {
		w := binary.LittleEndian.Uint32(in[i : i+4])
		d := w ^ prev
		binary.LittleEndian.PutUint32(out[i:i+4], d)
		prev = w
	}
	return out
}

// NRZMEncode is NRZMDecode's inverse: out[0] = in[0]; out[i] = in[i] XOR
// out[i-1]. Encoding and decoding are the same operation run with the
// running value taken from opposite sides, so NRZMDecode(NRZMEncode(w))
// == w for any word sequence (§8 "NRZ-M self-inverse").
func NRZMEncode(in []byte) []byte {
	out := make([]byte, len(in))
	var prev uint32
	for i := 0; i+4 <= len(in); i += 4 {
		w := binary.LittleEndian.Uint32(in[i : i+4])
		e := w ^ prev
		binary.LittleEndian.PutUint32(out[i:i+4], e)
		prev = e
	}
	return out
}
