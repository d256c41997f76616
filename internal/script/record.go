package script

// Record is a single text record found in a decompressed script body: the
// tag byte 0xFD, its length byte, the Shift-JIS text, and the terminating
// 0x00 all live at consecutive positions starting at Pos.
type Record struct {
	// Pos is the byte offset of the 0xFD tag within the body.
	Pos int
	// Len is the length byte, i.e. len(RawText).
	Len int
	// RawText is the raw Shift-JIS bytes between the tag+length and the
	// terminating 0x00.
	RawText []byte
	// Text is RawText decoded as Shift-JIS (CP932).
	Text string
}

// End returns the offset one past the record's terminating 0x00, i.e.
// where scanning resumes after this record.
func (r Record) End() int {
	return r.Pos + 2 + r.Len + 1
}
