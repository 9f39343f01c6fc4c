package match

import (
	"github.com/matzehuels/reqcheck/pkg/mapping"
	"github.com/matzehuels/reqcheck/pkg/pyscan"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// Match reconciles requirements against import records through the mapping
// table.
//
// Requirements are indexed by normalized name (a later duplicate overwrites
// an earlier one). Each non-stdlib import root is normalized, resolved
// through the package mappings when an entry exists, and matched against
// the index; hits mark the requirement used with the source file recorded,
// misses record the original pre-mapping import key as unmatched. Used
// requirements then pull in their configured runtime dependencies, which
// are attributed to the triggering requirement rather than a file. The
// partition is pure set membership and does not depend on input order;
// only the recorded file order is first-seen.
func Match(entries []requirements.Entry, records []ImportRecord, table *mapping.Table) *Result {
	if table == nil {
		table = mapping.New()
	}

	reqByKey := make(map[string]requirements.Entry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, seen := reqByKey[e.Normalized]; !seen {
			order = append(order, e.Normalized)
		}
		reqByKey[e.Normalized] = e
	}

	res := &Result{
		usedByKey:      make(map[string]*Usage),
		unmatchedByKey: make(map[string]*UnmatchedImport),
	}

	markUsed := func(key string) *Usage {
		u, ok := res.usedByKey[key]
		if !ok {
			u = &Usage{Entry: reqByKey[key], Extras: table.Extras(key)}
			res.usedByKey[key] = u
			res.Used = append(res.Used, u)
		}
		return u
	}

	for _, rec := range records {
		if pyscan.IsStdlib(rec.Root) {
			continue
		}
		importKey := requirements.Normalize(rec.Root)
		if importKey == "" {
			continue
		}

		candidate := importKey
		if mapped, ok := table.Resolve(importKey); ok {
			candidate = mapped
		}

		if _, ok := reqByKey[candidate]; ok {
			appendFile(markUsed(candidate), rec.File)
			continue
		}

		// Unmatched imports keep their pre-mapping identity so the report
		// names what the code actually imports.
		um, ok := res.unmatchedByKey[importKey]
		if !ok {
			um = &UnmatchedImport{Key: importKey}
			res.unmatchedByKey[importKey] = um
			res.Unmatched = append(res.Unmatched, um)
		}
		if !contains(um.Files, rec.File) {
			um.Files = append(um.Files, rec.File)
		}
	}

	expandRuntimeDeps(res, reqByKey, order, table)

	for _, key := range order {
		if _, ok := res.usedByKey[key]; !ok {
			res.Unused = append(res.Unused, reqByKey[key])
		}
	}

	return res
}

// expandRuntimeDeps marks requirements used when another used requirement
// lists them as runtime dependencies. Expansion follows chains (A pulls B,
// B pulls C) but a visited set keeps cyclic configuration entries from
// looping; each requirement is expanded at most once.
func expandRuntimeDeps(res *Result, reqByKey map[string]requirements.Entry, order []string, table *mapping.Table) {
	visited := make(map[string]bool)

	var queue []string
	for _, key := range order {
		if _, ok := res.usedByKey[key]; ok {
			queue = append(queue, key)
		}
	}

	for len(queue) > 0 {
		trigger := queue[0]
		queue = queue[1:]
		if visited[trigger] {
			continue
		}
		visited[trigger] = true

		for _, dep := range table.RuntimeDeps(trigger) {
			if _, declared := reqByKey[dep]; !declared {
				continue
			}
			if _, used := res.usedByKey[dep]; used {
				continue
			}
			u := &Usage{
				Entry:     reqByKey[dep],
				ImpliedBy: trigger,
				Extras:    table.Extras(dep),
			}
			res.usedByKey[dep] = u
			res.Used = append(res.Used, u)
			queue = append(queue, dep)
		}
	}
}

func appendFile(u *Usage, file string) {
	if file == "" || contains(u.Files, file) {
		return
	}
	u.Files = append(u.Files, file)
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
