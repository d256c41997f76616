//go:build amd64

package lzss

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// selectFinder picks the word-compare finder when the CPU has SSE2 (true on
// every amd64 CPU Go supports), otherwise falls back to the generic finder.
func selectFinder() finder {
	if cpu.X86.HasSSE2 {
		return accelFinder{}
	}
	return genericFinder{}
}

// accelFinder extends matches eight bytes at a time by comparing 64-bit
// words and using the trailing-zero count of the XOR to find the first
// mismatching byte, instead of genericFinder's byte-by-byte loop.
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
