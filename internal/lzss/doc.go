// Package lzss implements the LZSS variant used by the game's scenario
// script containers: a 4096-byte ring-buffer dictionary, a flag byte per
// eight tokens (bit value 1 selects a literal, 0 a back-reference), and
// back-references encoded as two bytes, (offsetLow, (length-3)<<4 |
// offsetHigh). The compressed stream is prefixed with a 4-byte
// little-endian count of the expected decompressed size.
//
// The only correctness contract on the compressor is round-trip equality
// with the decompressor; the compressor is free to choose any match it
// likes, including a suboptimal one, as long as Decompress(Compress(x))
// reproduces x.
package lzss
