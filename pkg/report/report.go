// Package report renders match results into the verification files written
// next to the requirements file.
//
// Three files are produced: <req>.verified holds the used requirement lines
// verbatim, <req>.mapping explains the used/unused split with per-file
// attribution, and <req>.unmatched-mapping lists imports no requirement
// accounts for. The last one is only written when there is something to
// report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/reqcheck/pkg/match"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

const separator = "================================================================================"

// Suffixes appended to the requirements file name.
const (
	VerifiedSuffix  = ".verified"
	MappingSuffix   = ".mapping"
	UnmatchedSuffix = ".unmatched-mapping"
)

// Files lists what Write produced. Unmatched is empty when every import was
// accounted for.
type Files struct {
	Verified  string
	Mapping   string
	Unmatched string
}

// Write renders res into report files next to reqPath. File paths inside the
// reports are shown relative to the first source root that contains them.
func Write(reqPath string, sourceRoots []string, res *match.Result) (Files, error) {
	files := Files{
		Verified: reqPath + VerifiedSuffix,
		Mapping:  reqPath + MappingSuffix,
	}

	if err := os.WriteFile(files.Verified, []byte(Verified(res)), 0o644); err != nil {
		return Files{}, fmt.Errorf("write %s: %w", files.Verified, err)
	}
	if err := os.WriteFile(files.Mapping, []byte(Mapping(res, sourceRoots)), 0o644); err != nil {
		return Files{}, fmt.Errorf("write %s: %w", files.Mapping, err)
	}

	if len(res.Unmatched) > 0 {
		files.Unmatched = reqPath + UnmatchedSuffix
		if err := os.WriteFile(files.Unmatched, []byte(UnmatchedMapping(res, sourceRoots)), 0o644); err != nil {
			return Files{}, fmt.Errorf("write %s: %w", files.Unmatched, err)
		}
	}

	return files, nil
}

// Verified renders the used requirements as a drop-in requirements file,
// one raw line per requirement, sorted by normalized name.
func Verified(res *match.Result) string {
	used := sortedUsed(res)
	var b strings.Builder
	for _, u := range used {
		b.WriteString(u.Entry.Raw)
		b.WriteByte('\n')
	}
	return b.String()
}

// Mapping renders the full used/unused breakdown with per-file attribution.
func Mapping(res *match.Result, sourceRoots []string) string {
	var b strings.Builder
	b.WriteString("# Mapping of requirements to files that use them\n")
	b.WriteString("# Format: <requirement> => <files>\n\n")

	b.WriteString(separator + "\n")
	b.WriteString("USED REQUIREMENTS\n")
	b.WriteString(separator + "\n\n")

	for _, u := range sortedUsed(res) {
		b.WriteString(u.Entry.Raw)
		b.WriteByte('\n')
		if len(u.Files) > 0 {
			for _, f := range sortedRelative(u.Files, sourceRoots) {
				fmt.Fprintf(&b, "  → %s\n", f)
			}
		} else if u.ImpliedBy != "" {
			fmt.Fprintf(&b, "  → [Runtime dependency for %s]\n", u.ImpliedBy)
		}
		b.WriteByte('\n')
	}

	if len(res.Unused) > 0 {
		b.WriteString("\n" + separator + "\n")
		b.WriteString("UNUSED REQUIREMENTS\n")
		b.WriteString(separator + "\n\n")
		fmt.Fprintf(&b, "# %d requirements not imported in any scanned Python file:\n\n", len(res.Unused))
		for _, e := range sortedUnused(res.Unused) {
			b.WriteString(e.Raw)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// UnmatchedMapping renders the imports that matched no requirement.
func UnmatchedMapping(res *match.Result, sourceRoots []string) string {
	var b strings.Builder
	b.WriteString("# Imports that couldn't be matched to requirements entries\n")
	b.WriteString("# These might be local modules or missing from the requirements file\n\n")

	unmatched := make([]*match.UnmatchedImport, len(res.Unmatched))
	copy(unmatched, res.Unmatched)
	sort.Slice(unmatched, func(i, j int) bool { return unmatched[i].Key < unmatched[j].Key })

	for _, um := range unmatched {
		fmt.Fprintf(&b, "• %s\n", um.Key)
		for _, f := range sortedRelative(um.Files, sourceRoots) {
			fmt.Fprintf(&b, "  → %s: import %s\n", f, um.Key)
		}
	}
	return b.String()
}

func sortedUsed(res *match.Result) []*match.Usage {
	used := make([]*match.Usage, len(res.Used))
	copy(used, res.Used)
	sort.Slice(used, func(i, j int) bool {
		return used[i].Entry.Normalized < used[j].Entry.Normalized
	})
	return used
}

func sortedUnused(unused []requirements.Entry) []requirements.Entry {
	out := make([]requirements.Entry, len(unused))
	copy(out, unused)
	sort.Slice(out, func(i, j int) bool { return out[i].Normalized < out[j].Normalized })
	return out
}

// sortedRelative rewrites each path relative to the first source root that
// contains it and returns the deduplicated, sorted list.
func sortedRelative(paths, sourceRoots []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel := relativize(p, sourceRoots)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}

func relativize(path string, sourceRoots []string) string {
	for _, root := range sourceRoots {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return rel
	}
	return path
}
