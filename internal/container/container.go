// Package container implements the script-container framing described in
// the codec pipeline's §4.2: splitting a raw CC file into its opaque
// 0x18-byte header and its LZSS-compressed body, and recombining them
// after the body has been edited.
package container

import (
	"encoding/binary"
	"errors"

	"github.com/evescript/evescript/internal/lzss"
)

// HeaderSize is the width of the opaque header prefix every script
// container carries ahead of its compressed payload.
const HeaderSize = 0x18

// LengthFieldOffset is the offset, within the header, of the little-endian
// u16 holding the decompressed body's length. It is the only header field
// the injection engine rewrites. The same offset is also where the LZSS
// codec's 4-byte little-endian size prefix begins, so Rebuild overwrites
// LengthFieldOffset..HeaderSize with that prefix; for bodies of at most
// MaxBodySize bytes its two upper bytes are zero.
const LengthFieldOffset = 0x14

// MaxBodySize is the largest a decompressed body may be; the length field
// at LengthFieldOffset is a u16, so bodies cannot exceed this.
const MaxBodySize = 0xFFFF

// ErrFileTooSmall is returned when a raw container is shorter than
// HeaderSize bytes and therefore cannot even hold the opaque header.
var ErrFileTooSmall = errors.New("container: file smaller than header")

// Container is the in-memory form of a script file: its opaque header
// plus its decompressed body. This is the representation every other
// stage in the pipeline — the scanner, the extractor, the injector —
// operates on.
type Container struct {
	Header []byte // HeaderSize bytes, opaque except LengthFieldOffset
	Body   []byte // decompressed body
}

// Parse splits a raw on-disk script file into header and LZSS-compressed
// payload and decompresses the payload. The LZSS layer consumes the
// 4-byte declared-size prefix that lives inside the header's tail
// (LengthFieldOffset..HeaderSize is both the end of the header and the
// codec's own size prefix), so the bytes fed to the codec start at
// LengthFieldOffset, not HeaderSize.
func Parse(raw []byte) (*Container, error) {
	if len(raw) < HeaderSize {
		return nil, ErrFileTooSmall
	}

	header := make([]byte, HeaderSize)
	copy(header, raw[:HeaderSize])

	compressed := raw[LengthFieldOffset:]
	body, err := lzss.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	return &Container{Header: header, Body: body}, nil
}

// DeclaredLength returns the body length recorded in the header, as a
// little-endian u16. It may be out of date with respect to c.Body if the
// caller has mutated Body without calling SetDeclaredLength.
func (c *Container) DeclaredLength() int {
	return int(binary.LittleEndian.Uint16(c.Header[LengthFieldOffset:]))
}

// SetDeclaredLength rewrites the header's length field. Callers must do
// this whenever c.Body's length changes so that DeclaredLength and Full
// reflect it; the injection engine tracks the running length itself to
// honor the whole-body budget (see internal/inject). Rebuild does not read
// this field: its output carries the codec's size prefix instead.
func (c *Container) SetDeclaredLength(n int) {
	binary.LittleEndian.PutUint16(c.Header[LengthFieldOffset:LengthFieldOffset+2], uint16(n))
}

// Rebuild compresses c.Body and reattaches c.Header, producing bytes
// suitable for writing back to a CC file. Only c.Header[:LengthFieldOffset]
// is copied; the length field and the two bytes after it come from the
// compressed stream's 4-byte size prefix, which always equals len(c.Body).
func (c *Container) Rebuild() []byte {
	compressed := lzss.Compress(c.Body)

	out := make([]byte, 0, HeaderSize+len(compressed))
	out = append(out, c.Header[:LengthFieldOffset]...)
	out = append(out, compressed...)
	return out
}

// Full returns the concatenated decompressed-form container: the 0x18-byte
// header followed by the decompressed body. The scanner and the injection
// engine both address positions within this concatenated view (a text
// record's position is reported relative to the start of the header, not
// the start of the body), matching the spec's own worked examples.
func (c *Container) Full() []byte {
	full := make([]byte, 0, len(c.Header)+len(c.Body))
	full = append(full, c.Header...)
	full = append(full, c.Body...)
	return full
}

// SetFull replaces c.Body with everything in full past HeaderSize. Callers
// use this after rewriting records in-place within a Full() slice.
func (c *Container) SetFull(full []byte) {
	c.Body = append([]byte(nil), full[HeaderSize:]...)
}
