package requirements

import "strings"

// Normalize converts a package or import name to its canonical form:
// lowercase with every run of '-', '_', and '.' collapsed to a single
// hyphen, following PEP 503 normalization as used by PyPI.
//
// Requirement names, import names, and mapping-table keys must all go
// through Normalize so they are comparable by plain equality.
// An empty or whitespace-only input normalizes to "".
func Normalize(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range name {
		if r == '-' || r == '_' || r == '.' {
			sep = true
			continue
		}
		if sep {
			b.WriteByte('-')
			sep = false
		}
		b.WriteRune(r)
	}
	if sep {
		b.WriteByte('-')
	}
	return b.String()
}
