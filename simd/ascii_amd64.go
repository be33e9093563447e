//go:build amd64

package simd

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// hasAVX2 indicates whether the CPU supports AVX2 instructions (256-bit
// SIMD). AVX2 was introduced in Intel Haswell (2013) and AMD Excavator
// (2015).
var hasAVX2 = cpu.X86.HasAVX2

const hi8 = uint64(0x8080808080808080)

// isASCIIWide processes 32 bytes at a time (four SWAR lanes), the width
// an AVX2 VPMOVMSKB pass would cover in one instruction. Used in place
// of hand-written assembly, which this tree carries no .s file for;
// the four-lane unroll still gives the wider chunk its CPU-feature gate
// implies over isASCIIGeneric's 8-byte stride.
func isASCIIWide(data []byte) bool {
	idx := 0
	n := len(data)
	for idx+32 <= n {
		a := binary.LittleEndian.Uint64(data[idx:])
		b := binary.LittleEndian.Uint64(data[idx+8:])
		c := binary.LittleEndian.Uint64(data[idx+16:])
		d := binary.LittleEndian.Uint64(data[idx+24:])
		if (a|b|c|d)&hi8 != 0 {
			return false
		}
		idx += 32
	}
	return isASCIIGeneric(data[idx:])
}

// IsASCII checks if all bytes in the slice are ASCII (< 0x80).
//
// On amd64 with AVX2 available and inputs of at least 32 bytes, this
// dispatches to the four-lane wide scan; smaller inputs or CPUs without
// AVX2 fall back to isASCIIGeneric's 8-byte SWAR loop.
func IsASCII(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if hasAVX2 && len(data) >= 32 {
		return isASCIIWide(data)
	}
	return isASCIIGeneric(data)
}
