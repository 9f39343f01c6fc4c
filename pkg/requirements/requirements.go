package requirements

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Entry is one declared dependency from a manifest file.
// Entries are immutable after creation; Normalized is the dedup and
// matching key.
type Entry struct {
	Raw        string   // original manifest line, preserved for round-trip output
	Name       string   // name as written (e.g. "Pillow")
	Normalized string   // canonical matching key (e.g. "pillow")
	Spec       string   // version specifier (e.g. ">=9.0"), never evaluated
	Extras     []string // declared extras (e.g. ["all"]), ignored for matching
	Marker     string   // environment marker after ';', ignored for matching
}

// Warning records a manifest line that was skipped during parsing.
type Warning struct {
	File string
	Line int
	Msg  string
}

func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Msg)
}

var (
	nameRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)`)
	eggRE  = regexp.MustCompile(`[#&]egg=([A-Za-z0-9._-]+)`)
)

// Parse reads requirements.txt content and returns the declared entries in
// first-seen order. When the same normalized name appears twice the later
// line wins, keeping the position of the first occurrence. Comments, blank
// lines, and pip options are skipped; a line that cannot be parsed is
// reported as a warning and contributes nothing.
func Parse(text string) ([]Entry, []Warning) {
	var (
		entries  []Entry
		warnings []Warning
		index    = make(map[string]int)
	)

	add := func(e Entry) {
		if i, ok := index[e.Normalized]; ok {
			entries[i] = e
			return
		}
		index[e.Normalized] = len(entries)
		entries = append(entries, e)
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip treats " #" as the start of an inline comment.
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		// Editable installs and VCS URLs carry their name in an egg fragment.
		if strings.HasPrefix(line, "-e") || strings.HasPrefix(line, "git+") || strings.Contains(line, "://") {
			if m := eggRE.FindStringSubmatch(line); m != nil {
				add(Entry{Raw: line, Name: m[1], Normalized: Normalize(m[1])})
			} else {
				warnings = append(warnings, Warning{Line: lineNo, Msg: "URL requirement without egg fragment, skipped"})
			}
			continue
		}

		// Remaining pip options (-r, -c, --index-url, ...) are not requirements.
		if strings.HasPrefix(line, "-") {
			continue
		}

		entry, err := ParseLine(line)
		if err != nil {
			warnings = append(warnings, Warning{Line: lineNo, Msg: err.Error()})
			continue
		}
		add(entry)
	}

	return entries, warnings
}

// ParseLine parses a single PEP 508 requirement string of the form
// name[extra1,extra2]<spec> ; marker. The marker is preserved but plays
// no part in matching.
func ParseLine(line string) (Entry, error) {
	raw := strings.TrimSpace(line)
	rest := raw

	// Split off the environment marker first; specs never contain ';'.
	marker := ""
	if i := strings.Index(rest, ";"); i >= 0 {
		marker = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
	}

	m := nameRE.FindString(rest)
	if m == "" {
		return Entry{}, fmt.Errorf("malformed requirement %q", raw)
	}
	rest = rest[len(m):]

	var extras []string
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return Entry{}, fmt.Errorf("unterminated extras in %q", raw)
		}
		for _, x := range strings.Split(rest[1:end], ",") {
			if x = strings.TrimSpace(x); x != "" {
				extras = append(extras, x)
			}
		}
		rest = rest[end+1:]
	}

	return Entry{
		Raw:        raw,
		Name:       m,
		Normalized: Normalize(m),
		Spec:       strings.TrimSpace(rest),
		Extras:     extras,
		Marker:     marker,
	}, nil
}

// ParseFile reads and parses a requirements.txt style manifest from disk.
func ParseFile(path string) ([]Entry, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	entries, warnings := Parse(string(data))
	for i := range warnings {
		warnings[i].File = path
	}
	return entries, warnings, nil
}
