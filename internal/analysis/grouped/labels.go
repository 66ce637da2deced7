package grouped

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FormatLabel inserts a space between a label's leading letters and the
// content that follows them, e.g. "Time1" becomes "Time 1". Labels that are
// all letters or already spaced come back unchanged.
func FormatLabel(label string) string {
	prefix := 0
	for prefix < len(label) {
		r, size := utf8.DecodeRuneInString(label[prefix:])
		if !unicode.IsLetter(r) {
			break
		}
		prefix += size
	}
	if prefix == 0 || prefix == len(label) {
		return label
	}
	rest := label[prefix:]
	if strings.HasPrefix(rest, " ") {
		return label
	}
	return label[:prefix] + " " + rest
}

// FormatLabels applies FormatLabel to every label
func FormatLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = FormatLabel(l)
	}
	return out
}
