// Package security holds input hygiene helpers for names that end up on
// disk.
package security

import "strings"

// maxFilenameLen bounds the length of a sanitized name.
const maxFilenameLen = 128

// SanitizeFilename makes a safe filename stem from an arbitrary string such
// as a run ID. Anything other than ASCII letters, digits, dot, underscore
// or dash becomes an underscore. Repeated underscores collapse and leading
// or trailing dots, underscores and dashes are trimmed. The result never
// contains a path separator.
func SanitizeFilename(s string) string {
	if s == "" {
		return "unknown"
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "unknown"
	}
	return out
}
