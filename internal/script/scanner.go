// Package script implements the text-record scanner described in the
// codec pipeline's §4.3: a single left-to-right pass over a decompressed
// script container that locates 0xFD-tagged dialogue records using a
// five-part validation heuristic.
package script

import "github.com/evescript/evescript/internal/sjis"

// tag is the byte that opens every candidate text record.
const tag = 0xFD

// rejectedPayload is the one 3-byte sequence that otherwise matches a
// text record shape but must never be treated as one (§4.3, check 5).
var rejectedPayload = [3]byte{0x12, 0xFB, 0x01}

// Scan walks full starting at bodyStart and returns every validated text
// record, in source order. bodyStart is the offset within full where the
// decompressed body begins (the caller passes container.HeaderSize); full
// itself is the concatenated header+body view, since record positions are
// always reported relative to it.
//
// When the byte at a candidate position is 0xFD but fails validation, the
// scan advances exactly one byte and continues — it does not skip past
// whatever opcode data that byte turned out to be part of. This
// non-resynchronizing recovery is intentional: the shipped scripts are
// known to produce a correct record set under it, and a stricter scanner
// that tried to resynchronize could desync instead.
func Scan(full []byte, bodyStart int) []Record {
	var records []Record

	pos := bodyStart
	for pos < len(full) {
		if full[pos] != tag {
			pos++
			continue
		}

		rec, ok := validate(full, pos)
		if !ok {
			pos++
			continue
		}

		records = append(records, rec)
		pos = rec.End()
	}

	return records
}

// validate applies the five-part heuristic at a candidate 0xFD position
// and, on success, builds the Record.
func validate(full []byte, pos int) (Record, bool) {
	// 1. len = next byte; require len > 0.
	if pos+1 >= len(full) {
		return Record{}, false
	}
	length := int(full[pos+1])
	if length == 0 {
		return Record{}, false
	}

	textStart := pos + 2
	textEnd := textStart + length // exclusive
	// 2. require byte at pos+2+len to exist and equal 0x00.
	if textEnd >= len(full) || full[textEnd] != 0x00 {
		return Record{}, false
	}

	raw := full[textStart:textEnd]

	// 3. require no 0x00 within the candidate text.
	for _, b := range raw {
		if b == 0x00 {
			return Record{}, false
		}
	}

	// 4. CP932 lead-byte walk must not overrun the declared length.
	if !cp932WalkFits(raw) {
		return Record{}, false
	}

	// 5. reject the specific three-byte payload 12 FB 01.
	if length == len(rejectedPayload) &&
		raw[0] == rejectedPayload[0] && raw[1] == rejectedPayload[1] && raw[2] == rejectedPayload[2] {
		return Record{}, false
	}

	text := sjis.DecodeLossy(raw)

	return Record{
		Pos:     pos,
		Len:     length,
		RawText: append([]byte(nil), raw...),
		Text:    text,
	}, true
}

// cp932WalkFits walks raw under CP932 lead-byte rules and reports whether
// the walk lands exactly on len(raw) (every byte consumed, no lead byte
// left dangling at the end). A lead byte as the final byte would "swallow"
// the 0x0A the game engine inserts after the record when it line-breaks,
// producing mojibake, so that case must be rejected.
func cp932WalkFits(raw []byte) bool {
	i := 0
	for i < len(raw) {
		if sjis.IsLeadByte(raw[i]) {
			i += 2
		} else {
			i++
		}
	}
	return i == len(raw)
}
