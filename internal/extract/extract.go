// Package extract renders a scanned record list into the translator's
// editable UTF-8 text file, per the codec pipeline's §4.4.
package extract

import (
	"strings"

	"github.com/evescript/evescript/internal/script"
)

// Render produces the translator text file contents for records, one
// record per line in source order, with every literal 0x0A in the
// decoded text rendered as the ASCII escape character '\\'. Every record's
// line, including the last, ends with a newline; for an empty record list
// the result is the empty string. Extraction is pure: it has no
// failure mode and no side effects.
func Render(records []script.Record) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(strings.ReplaceAll(rec.Text, "\n", `\`))
		b.WriteByte('\n')
	}
	return b.String()
}
