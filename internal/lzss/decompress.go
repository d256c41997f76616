package lzss

import "encoding/binary"

// Decompress reverses Compress. The first 4 bytes of src are a
// little-endian declared decompressed size; the decoder stops once it has
// produced that many bytes. If the stream runs out before the declared
// size is reached, Decompress returns what it decoded so far with a nil
// error (the declared size is honored by truncation, not by treating a
// short stream as corrupt) — per the tie-break rule in the package spec.
// If the stream would produce more than the declared size, the extra
// bytes are discarded.
func Decompress(src []byte) ([]byte, error) {
	if len(src) < sizePrefixLen {
		return nil, ErrShortHeader
	}

	declared := int32(binary.LittleEndian.Uint32(src))
	if declared < 0 {
		return nil, ErrNegativeSize
	}
	size := int(declared)

	out := make([]byte, 0, size)
	r := newRing()

	pos := sizePrefixLen
	for len(out) < size && pos < len(src) {
		flags := src[pos]
		pos++

		for bit := 0; bit < 8 && len(out) < size; bit++ {
			isLiteral := (flags>>uint(bit))&flagLiteral != 0

			if isLiteral {
				if pos >= len(src) {
					return out, nil
				}
				c := src[pos]
				pos++
				out = append(out, c)
				r.put(c)
				continue
			}

			if pos+1 >= len(src) {
				return out, nil
			}
			lo := src[pos]
			hi := src[pos+1]
			pos += 2

			offset, length := decodeBackRef(lo, hi)

			for k := 0; k < length && len(out) < size; k++ {
				c := r.at(offset + k)
				out = append(out, c)
				r.put(c)
			}
		}
	}

	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}
