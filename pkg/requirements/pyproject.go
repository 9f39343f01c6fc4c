package requirements

import (
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// pyproject mirrors the PEP 621 [project] table; only dependency fields
// are decoded.
type pyproject struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// IsPyproject reports whether path names a pyproject.toml manifest.
func IsPyproject(path string) bool {
	return filepath.Base(path) == "pyproject.toml"
}

// ParsePyproject reads a pyproject.toml file and returns its [project]
// dependencies as entries. Optional dependency groups are included since
// they are declared dependencies of the project; the group name is not
// preserved. Dedup follows the same last-wins rule as Parse.
func ParsePyproject(path string) ([]Entry, []Warning, error) {
	var doc pyproject
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, nil, err
	}

	var (
		entries  []Entry
		warnings []Warning
		index    = make(map[string]int)
	)
	add := func(dep string) {
		entry, err := ParseLine(dep)
		if err != nil {
			warnings = append(warnings, Warning{File: path, Msg: err.Error()})
			return
		}
		if i, ok := index[entry.Normalized]; ok {
			entries[i] = entry
			return
		}
		index[entry.Normalized] = len(entries)
		entries = append(entries, entry)
	}

	for _, dep := range doc.Project.Dependencies {
		add(dep)
	}
	for _, group := range sortedKeys(doc.Project.OptionalDependencies) {
		for _, dep := range doc.Project.OptionalDependencies[group] {
			add(dep)
		}
	}

	return entries, warnings, nil
}

// sortedKeys keeps group iteration deterministic; map order would leak
// into entry order otherwise.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
