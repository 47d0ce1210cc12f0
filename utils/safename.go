package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes characters and drops combining marks, so that
// names like "José" become "Jose" before the ASCII filter runs.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SafeName converts a human-entered display name (vendor, person or project
// name) into a string that is safe as a single object-storage path segment.
// The result contains only [A-Za-z0-9._-]; everything else, including path
// separators and whitespace, is replaced with an underscore. Runs of
// underscores are collapsed and leading/trailing underscores trimmed.
// A non-empty name that sanitizes away entirely, or down to dots only
// ("." and ".." are path navigation to URL normalizers), yields "_" so the
// result is always usable as a segment. Case is preserved. The function is
// deterministic, never fails and is idempotent:
// SafeName(SafeName(x)) == SafeName(x).
func SafeName(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		// Malformed input still has to produce something usable.
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if name != "" && (out == "" || strings.Trim(out, ".") == "") {
		return "_"
	}
	return out
}
