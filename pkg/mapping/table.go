package mapping

import (
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// Table is the combined lookup structure used by the match engine.
// All keys and values are stored normalized. The zero value is not usable;
// construct with New or Default.
type Table struct {
	packageMappings     map[string]string
	runtimeDependencies map[string][]string
	packageExtras       map[string][]string
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		packageMappings:     make(map[string]string),
		runtimeDependencies: make(map[string][]string),
		packageExtras:       make(map[string][]string),
	}
}

// Default returns a Table populated with the compiled-in defaults.
func Default() *Table {
	t := New()
	for imp, pkg := range defaultPackageMappings {
		t.SetMapping(imp, pkg)
	}
	for pkg, deps := range defaultRuntimeDependencies {
		t.SetRuntimeDeps(pkg, deps)
	}
	return t
}

// SetMapping records that import name imp resolves to declared package pkg.
// Both sides are normalized before storage.
func (t *Table) SetMapping(imp, pkg string) {
	imp = requirements.Normalize(imp)
	pkg = requirements.Normalize(pkg)
	if imp == "" || pkg == "" {
		return
	}
	t.packageMappings[imp] = pkg
}

// SetRuntimeDeps records that a used pkg implicitly also uses deps.
func (t *Table) SetRuntimeDeps(pkg string, deps []string) {
	pkg = requirements.Normalize(pkg)
	if pkg == "" {
		return
	}
	normalized := make([]string, 0, len(deps))
	for _, d := range deps {
		if d = requirements.Normalize(d); d != "" {
			normalized = append(normalized, d)
		}
	}
	t.runtimeDependencies[pkg] = normalized
}

// SetExtras records recommended extras for pkg. Extras names are advisory
// and attached to output only, so they are lower-cased but not otherwise
// normalized.
func (t *Table) SetExtras(pkg string, extras []string) {
	pkg = requirements.Normalize(pkg)
	if pkg == "" {
		return
	}
	t.packageExtras[pkg] = append([]string(nil), extras...)
}

// Resolve maps a normalized import key to its declared package key.
// The second return reports whether an explicit mapping exists; without
// one the import key itself is the candidate.
func (t *Table) Resolve(importKey string) (string, bool) {
	pkg, ok := t.packageMappings[importKey]
	return pkg, ok
}

// RuntimeDeps returns the implicit dependencies of a declared package key.
func (t *Table) RuntimeDeps(pkg string) []string {
	return t.runtimeDependencies[pkg]
}

// Extras returns the recommended extras for a declared package key.
func (t *Table) Extras(pkg string) []string {
	return t.packageExtras[pkg]
}

// RuntimeTriggers returns the declared package keys that have runtime
// dependency expansions, for diagnostics and staleness checks.
func (t *Table) RuntimeTriggers() []string {
	keys := make([]string, 0, len(t.runtimeDependencies))
	for k := range t.runtimeDependencies {
		keys = append(keys, k)
	}
	return keys
}

// Merge layers other on top of t, key-by-key. Entries in other win on
// collision; t's remaining entries are untouched. A nil other is a no-op.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for imp, pkg := range other.packageMappings {
		t.packageMappings[imp] = pkg
	}
	for pkg, deps := range other.runtimeDependencies {
		t.runtimeDependencies[pkg] = deps
	}
	for pkg, extras := range other.packageExtras {
		t.packageExtras[pkg] = extras
	}
}
