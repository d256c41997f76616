package inject

import "strings"

// GotoPrefix marks a translator line as a script-jump directive rather
// than dialogue text.
const GotoPrefix = "GOTO "

// ParseTranslatorText splits a translator file's contents into one string
// per text record, in source order: lines are split on '\n', lines that
// are empty after the split are dropped (and do not count as records),
// and every '\\' in a surviving line is decoded back to a literal 0x0A.
func ParseTranslatorText(text string) []string {
	rawLines := strings.Split(text, "\n")

	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		if len(line) == 0 {
			continue
		}
		lines = append(lines, strings.ReplaceAll(line, `\`, "\n"))
	}
	return lines
}

// IsGoto reports whether a (already backslash-decoded) replacement line is
// a GOTO directive, and returns the target text with the prefix stripped.
func IsGoto(line string) (target string, ok bool) {
	if strings.HasPrefix(line, GotoPrefix) {
		return line[len(GotoPrefix):], true
	}
	return "", false
}
