package match

import (
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// ImportRecord is one distinct top-level module imported by a file.
// Relative imports are excluded upstream; stdlib roots are dropped by the
// engine itself.
type ImportRecord struct {
	Root string // first path segment of the dotted import
	File string // source file the import appears in
}

// Usage describes why a requirement counted as used.
type Usage struct {
	Entry requirements.Entry
	Files []string // contributing files, first-seen order, deduplicated
	// ImpliedBy is set instead of Files when the requirement was pulled in
	// as a runtime dependency of another used requirement. Reports must
	// keep the two attributions distinguishable.
	ImpliedBy string
	// Extras are advisory recommendations from the mapping table, attached
	// for reporting only.
	Extras []string
}

// UnmatchedImport is an import root with no corresponding requirement.
// Key is the pre-mapping normalized import name.
type UnmatchedImport struct {
	Key   string
	Files []string
}

// Result is the full partition produced by Match.
//
// Invariant: every requirement appears in exactly one of Used/Unused, and
// every non-stdlib, non-relative import root is either attributed to a
// used requirement or listed in Unmatched.
type Result struct {
	Used      []*Usage
	Unused    []requirements.Entry
	Unmatched []*UnmatchedImport

	usedByKey      map[string]*Usage
	unmatchedByKey map[string]*UnmatchedImport
}

// UsedKey returns the usage for a normalized requirement key, if the
// requirement was matched.
func (r *Result) UsedKey(key string) (*Usage, bool) {
	u, ok := r.usedByKey[key]
	return u, ok
}
