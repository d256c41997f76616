// Package sjis wraps Shift-JIS (CP932) conversion, used by the text-record
// scanner and the injection engine, and the CP932 lead-byte test the
// scanner needs, backed by
// golang.org/x/text/encoding/japanese so the codec never has to carry its
// own code-page table.
package sjis

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Decode converts a run of Shift-JIS bytes, as found inside a text record,
// to a UTF-8 Go string.
func Decode(b []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeLossy behaves like Decode but never fails: any byte sequence that
// doesn't map to a Unicode code point is replaced with utf8.RuneError
// instead of returning an error. The scanner uses this so a decode failure
// never feeds into its record accept/reject decision.
func DecodeLossy(b []byte) string {
	out, _, _ := transform.Bytes(encoding.ReplaceUnsupported(japanese.ShiftJIS.NewDecoder()), b)
	return string(out)
}

// Encode converts a UTF-8 string back to Shift-JIS bytes, suitable for
// writing into a text record's text_bytes field.
func Encode(s string) ([]byte, error) {
	return japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
}

// IsLeadByte reports whether b is a CP932 lead byte: the first of a
// two-byte character, per the ranges 0x81..=0x9F and 0xE0..=0xFC.
func IsLeadByte(b byte) bool {
	return (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC)
}
