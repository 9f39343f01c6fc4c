// Package requirements parses Python dependency manifests into structured
// entries that can be compared by normalized name.
//
// Two manifest formats are supported:
//   - requirements.txt (one PEP 508 requirement per line)
//   - pyproject.toml ([project] dependencies, PEP 621)
//
// Parsing is lenient: comments, blank lines, and pip options are skipped,
// and a malformed line produces a warning instead of an error so a single
// bad entry never aborts a scan.
package requirements
