//go:build arm64

package lzss

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// selectFinder picks the word-compare finder when the CPU reports ASIMD
// (NEON), which is mandatory on every arm64 target Go supports.
func selectFinder() finder {
	if cpu.ARM64.HasASIMD {
		return accelFinder{}
	}
	return genericFinder{}
}

// accelFinder extends matches eight bytes at a time, mirroring the amd64
// word-compare finder; arm64 has no SIMD byte-compare instruction exposed
// through the standard library, so the acceleration here is the same
// plain 64-bit word trick rather than true NEON code.
type accelFinder struct{}

func (accelFinder) extend(r *ring, candidatePos int, lookahead []byte, max int) int {
	n := 0
	for n+8 <= max {
		a := ringWord(r, candidatePos+n)
		b := binary.LittleEndian.Uint64(lookaheadWord(lookahead, n))
		if a == b {
			n += 8
			continue
		}
		diff := a ^ b
		n += bits.TrailingZeros64(diff) / 8
		return min(n, max)
	}
	for n < max && r.at(candidatePos+n) == lookahead[n] {
		n++
	}
	return n
}

// ringWord reads 8 bytes starting at a ring position as a little-endian
// word, wrapping around the ring boundary byte by byte when necessary.
func ringWord(r *ring, pos int) uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = r.at(pos + i)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// lookaheadWord returns an 8-byte slice of lookahead starting at off,
// zero-padding past the end so the caller's word read is always safe.
func lookaheadWord(lookahead []byte, off int) []byte {
	var buf [8]byte
	copy(buf[:], lookahead[off:])
	return buf[:]
}
