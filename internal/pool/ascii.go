package pool

import "github.com/la3lma/rmatch/simd"

// IsASCIIRunes reports whether every rune in rs is in the ASCII range
// (< 0x80). Unlike simd.IsASCII, this walks runes directly rather than
// needing an encoded byte buffer.
func IsASCIIRunes(rs []rune) bool {
	for _, r := range rs {
		if r >= 0x80 {
			return false
		}
	}
	return true
}

// IsASCIIBytes reports whether every byte in data has its high bit
// clear. Thin pass-through to simd.IsASCII, which on amd64 uses a
// four-lane 32-byte pure-Go scan when golang.org/x/sys/cpu reports AVX2
// and an 8-byte SWAR scan otherwise.
func IsASCIIBytes(data []byte) bool {
	return simd.IsASCII(data)
}
