// Package inject implements the injection engine described in the codec
// pipeline's §4.5: given a decompressed script and a list of replacement
// strings, it builds a new decompressed script honoring per-record length
// limits, a whole-body size budget, GOTO jump directives, and line
// wrapping.
package inject

import (
	"bytes"
	"fmt"

	"github.com/evescript/evescript/internal/container"
	"github.com/evescript/evescript/internal/script"
	"github.com/evescript/evescript/internal/sjis"
)

// Outcome is the tri-state result of injecting into one file.
type Outcome int

const (
	// Success means every record was replaced.
	Success Outcome = iota
	// Partial means some records were skipped (oversize or over budget)
	// but the output file is still valid and loadable.
	Partial
	// Fail means the file could not be injected at all; no output was
	// produced.
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Partial:
		return "partial"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// Options configures the injection engine's tunable parameters.
type Options struct {
	// WrapWidth is the Unicode-character line width passed to Wrap for
	// every non-GOTO replacement. Zero means DefaultWrapWidth.
	WrapWidth int
}

// Result reports what happened to one file.
type Result struct {
	Outcome Outcome
	// Err is set when Outcome is Fail.
	Err error
	// SkippedRecords is the number of records left as original Japanese
	// bytes because of an OversizeRecord or BodyBudget rejection.
	SkippedRecords int
	// OverflowBytes accumulates, across all BodyBudget rejections, how
	// far over the 0xFFFF whole-body limit each rejected record's
	// growth would have pushed the running length.
	OverflowBytes int
}

// maxRecordTextBytes is the largest a record's encoded text may be; it is
// the same limit the text-record format's len byte can express.
const maxRecordTextBytes = 0xFF

// Inject rebuilds c's body using replacement lines (one per scanned
// record, in order — see ParseTranslatorText), returning the rebuilt
// container alongside a Result describing the outcome. On Fail, the
// returned container is nil and c is left unmodified.
func Inject(c *container.Container, lines []string, opts Options) (*container.Container, Result) {
	wrapWidth := opts.WrapWidth
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	original := c.Full()
	records := script.Scan(original, container.HeaderSize)

	if len(lines) != len(records) {
		return nil, Result{Outcome: Fail, Err: ErrMismatch}
	}

	type decision struct {
		rec      script.Record
		newBytes []byte // full record bytes: tag(+0x07)/len/text/00
		skipped  bool
	}

	decisions := make([]decision, len(records))
	runningLength := c.DeclaredLength()
	result := Result{Outcome: Success}

	for i, rec := range records {
		oldBytes := original[rec.Pos:rec.End()]
		line := lines[i]

		newBytes, skip, err := encodeRecord(line, wrapWidth)
		if err != nil {
			// Shift-JIS encoding failure: treat like oversize — keep
			// the original Japanese bytes rather than failing the
			// whole file.
			skip = true
		}

		if skip {
			decisions[i] = decision{rec: rec, newBytes: oldBytes, skipped: true}
			result.SkippedRecords++
			result.Outcome = Partial
			continue
		}

		delta := len(newBytes) - len(oldBytes)
		if runningLength+delta > container.MaxBodySize {
			result.OverflowBytes += runningLength + delta - container.MaxBodySize
			result.SkippedRecords++
			result.Outcome = Partial
			decisions[i] = decision{rec: rec, newBytes: oldBytes, skipped: true}
			continue
		}

		runningLength += delta
		decisions[i] = decision{rec: rec, newBytes: newBytes, skipped: false}
	}

	rebuilt := make([]byte, 0, len(original))
	rebuilt = append(rebuilt, original[:container.HeaderSize]...)
	cursor := container.HeaderSize

	for _, d := range decisions {
		oldBytes := original[d.rec.Pos:d.rec.End()]

		idx := bytes.Index(original[cursor:], oldBytes)
		if idx < 0 {
			return nil, Result{Outcome: Fail, Err: fmt.Errorf("%w: offset 0x%x", ErrLostAnchor, d.rec.Pos)}
		}
		foundPos := cursor + idx

		rebuilt = append(rebuilt, original[cursor:foundPos]...)
		rebuilt = append(rebuilt, d.newBytes...)
		cursor = foundPos + len(oldBytes)
	}
	rebuilt = append(rebuilt, original[cursor:]...)

	out := &container.Container{
		Header: append([]byte(nil), c.Header...),
		Body:   nil,
	}
	out.SetFull(rebuilt)
	out.SetDeclaredLength(runningLength)

	return out, result
}

// encodeRecord turns one (already backslash-decoded) translator line into
// the full record byte sequence it should become, applying line wrapping
// to non-GOTO text first. skip is true when the encoded text exceeds
// maxRecordTextBytes and the caller should retain the original bytes
// instead (OversizeRecord).
func encodeRecord(line string, wrapWidth int) (encoded []byte, skip bool, err error) {
	if target, ok := IsGoto(line); ok {
		textBytes, err := sjis.Encode(target)
		if err != nil {
			return nil, false, err
		}
		if len(textBytes) > maxRecordTextBytes {
			return nil, true, nil
		}
		out := make([]byte, 0, 4+len(textBytes))
		out = append(out, 0x07, 0xFD, byte(len(textBytes)))
		out = append(out, textBytes...)
		out = append(out, 0x00)
		return out, false, nil
	}

	wrapped := Wrap(line, wrapWidth)
	textBytes, err := sjis.Encode(wrapped)
	if err != nil {
		return nil, false, err
	}
	if len(textBytes) > maxRecordTextBytes {
		return nil, true, nil
	}
	out := make([]byte, 0, 3+len(textBytes))
	out = append(out, 0xFD, byte(len(textBytes)))
	out = append(out, textBytes...)
	out = append(out, 0x00)
	return out, false, nil
}
