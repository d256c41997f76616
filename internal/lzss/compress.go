package lzss

import "encoding/binary"

// Compress encodes body using the ring-buffer LZSS scheme described in
// package doc.go and returns a stream consumable by Decompress: a 4-byte
// little-endian declared size followed by flagged token blocks.
//
// The encoder is greedy: at each position it takes the longest match the
// finder reports, or a literal if no match of at least MinMatchLength
// exists. This is allowed to be suboptimal; the only hard requirement is
// that Decompress(Compress(body)) reproduces body exactly.
func Compress(body []byte) []byte {
	out := make([]byte, sizePrefixLen)
	binary.LittleEndian.PutUint32(out, uint32(len(body)))

	r := newRing()
	var flagByte byte
	var flagBit uint
	var block []byte

	flushBlock := func() {
		if flagBit == 0 {
			return
		}
		out = append(out, flagByte)
		out = append(out, block...)
		flagByte = 0
		flagBit = 0
		block = block[:0]
	}

	pos := 0
	for pos < len(body) {
		lookahead := body[pos:]
		m, ok := bestMatch(r, lookahead)

		if ok {
			lo, hi := encodeBackRef(m)
			block = append(block, lo, hi)
			// flag bit stays 0 for a back-reference
			for i := 0; i < m.length; i++ {
				r.put(body[pos+i])
			}
			pos += m.length
		} else {
			flagByte |= byte(flagLiteral) << flagBit
			block = append(block, body[pos])
			r.put(body[pos])
			pos++
		}

		flagBit++
		if flagBit == 8 {
			flushBlock()
		}
	}
	flushBlock()

	return out
}
