package inject

import (
	"bytes"
	"strings"
	"testing"

	"github.com/evescript/evescript/internal/container"
)

func newContainer(t *testing.T, body []byte) *container.Container {
	t.Helper()
	header := make([]byte, container.HeaderSize)
	c := &container.Container{Header: header, Body: body}
	c.SetDeclaredLength(len(body))
	return c
}

func TestInjectMinimumRecord(t *testing.T) {
	// Scenario 1: FD 03 41 42 43 00 ("ABC") -> "XYZ".
	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	c := newContainer(t, body)

	out, result := Inject(c, []string{"XYZ"}, Options{})
	if result.Outcome != Success {
		t.Fatalf("outcome = %v, want Success", result.Outcome)
	}

	want := []byte{0xFD, 0x03, 0x58, 0x59, 0x5A, 0x00}
	if !bytes.Equal(out.Body, want) {
		t.Fatalf("body = % x, want % x", out.Body, want)
	}
	if out.DeclaredLength() != len(body) {
		t.Fatalf("declared length changed: got %d, want %d", out.DeclaredLength(), len(body))
	}
}

func TestInjectSizeGrowingRecord(t *testing.T) {
	// Scenario 2: FD 01 41 00 ("A") -> "HELLO".
	body := []byte{0xFD, 0x01, 0x41, 0x00}
	c := newContainer(t, body)

	out, result := Inject(c, []string{"HELLO"}, Options{})
	if result.Outcome != Success {
		t.Fatalf("outcome = %v, want Success", result.Outcome)
	}

	want := []byte{0xFD, 0x05, 0x48, 0x45, 0x4C, 0x4C, 0x4F, 0x00}
	if !bytes.Equal(out.Body, want) {
		t.Fatalf("body = % x, want % x", out.Body, want)
	}
	if out.DeclaredLength() != len(body)+4 {
		t.Fatalf("declared length = %d, want %d", out.DeclaredLength(), len(body)+4)
	}
}

func TestInjectOversizeRecordSkipped(t *testing.T) {
	// Scenario 3: a 300-character replacement must be skipped, original
	// bytes retained, outcome Partial.
	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	c := newContainer(t, body)

	oversize := strings.Repeat("A", 300)
	out, result := Inject(c, []string{oversize}, Options{})

	if result.Outcome != Partial {
		t.Fatalf("outcome = %v, want Partial", result.Outcome)
	}
	if result.SkippedRecords != 1 {
		t.Fatalf("SkippedRecords = %d, want 1", result.SkippedRecords)
	}
	if !bytes.Equal(out.Body, body) {
		t.Fatalf("body changed for a skipped record: % x", out.Body)
	}
}

func TestInjectBodyBudgetSaturation(t *testing.T) {
	// Scenario 4: starting body length 0xFFFE; a replacement that grows
	// the record by 3 bytes must be skipped, with overflow accumulator 2.
	record := []byte{0xFD, 0x01, 0x41, 0x00} // "A", 4 bytes total
	padding := bytes.Repeat([]byte{0x01}, 0xFFFE-len(record))
	body := append(append([]byte(nil), padding...), record...)
	if len(body) != 0xFFFE {
		t.Fatalf("test setup: body length = %d, want 0xFFFE", len(body))
	}

	c := newContainer(t, body)
	// "WXYZ" encodes to 4 ASCII bytes vs the original 1-byte text,
	// growing the record's total length by exactly 3.
	out, result := Inject(c, []string{"WXYZ"}, Options{})

	if result.Outcome != Partial {
		t.Fatalf("outcome = %v, want Partial", result.Outcome)
	}
	if result.OverflowBytes != 2 {
		t.Fatalf("OverflowBytes = %d, want 2", result.OverflowBytes)
	}
	if !bytes.Equal(out.Body, body) {
		t.Fatalf("body changed for a budget-rejected record")
	}
}

func TestInjectGotoDirective(t *testing.T) {
	// Scenario 5: "GOTO a001_6" -> 07 FD 06 61 30 30 31 5F 36 00.
	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	c := newContainer(t, body)

	out, result := Inject(c, []string{"GOTO a001_6"}, Options{})
	if result.Outcome != Success {
		t.Fatalf("outcome = %v, want Success", result.Outcome)
	}

	want := []byte{0x07, 0xFD, 0x06, 0x61, 0x30, 0x30, 0x31, 0x5F, 0x36, 0x00}
	if !bytes.Equal(out.Body, want) {
		t.Fatalf("body = % x, want % x", out.Body, want)
	}
}

func TestInjectMismatchFailsWithoutOutput(t *testing.T) {
	body := []byte{0xFD, 0x03, 0x41, 0x42, 0x43, 0x00}
	c := newContainer(t, body)

	out, result := Inject(c, []string{"A", "B"}, Options{})
	if result.Outcome != Fail || result.Err != ErrMismatch {
		t.Fatalf("result = %+v, want Fail/ErrMismatch", result)
	}
	if out != nil {
		t.Fatalf("expected nil container on Fail")
	}
}

func TestInjectMultipleRecordsPreservesOrder(t *testing.T) {
	body := []byte{
		0xFD, 0x03, 0x41, 0x42, 0x43, 0x00,
		0xFD, 0x02, 0x58, 0x59, 0x00,
	}
	c := newContainer(t, body)

	out, result := Inject(c, []string{"one", "two"}, Options{})
	if result.Outcome != Success {
		t.Fatalf("outcome = %v, want Success", result.Outcome)
	}

	want := []byte{
		0xFD, 0x03, 0x6F, 0x6E, 0x65, 0x00,
		0xFD, 0x03, 0x74, 0x77, 0x6F, 0x00,
	}
	if !bytes.Equal(out.Body, want) {
		t.Fatalf("body = % x, want % x", out.Body, want)
	}
}
