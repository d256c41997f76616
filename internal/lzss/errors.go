package lzss

import "errors"

// Sentinel errors of the decompressor.
var (
	// ErrCorrupt names a corrupt compressed stream. Decompress does not
	// return it: a stream that ends in the middle of a back-reference pair
	// or a literal that the flag byte promised yields the bytes decoded so
	// far with a nil error.
	ErrCorrupt = errors.New("lzss: corrupt compressed stream")
	// ErrNegativeSize is returned when the declared decompressed size
	// (the 4-byte little-endian prefix) is negative when interpreted as
	// a signed value.
	ErrNegativeSize = errors.New("lzss: negative declared size")
	// ErrShortHeader is returned when the input is too small to contain
	// the 4-byte size prefix.
	ErrShortHeader = errors.New("lzss: input shorter than size prefix")
)
