package pyscan

import (
	"fmt"
	"regexp"
	"strings"
)

// FileImports holds the distinct top-level module roots imported by one
// source file, in first-seen order.
type FileImports struct {
	Path  string
	Roots []string
}

// Warning records a file or statement that could not be analyzed.
type Warning struct {
	File string
	Msg  string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.File, w.Msg) }

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Extract returns the set of top-level module roots imported by source.
// Relative imports (leading dot) have no external root and are dropped.
// A statement that cannot be parsed is skipped with a warning; extraction
// of the rest of the file continues.
func Extract(path, source string) ([]string, []Warning) {
	var (
		roots    []string
		seen     = make(map[string]bool)
		warnings []Warning
	)

	add := func(root string) {
		if root == "" || seen[root] {
			return
		}
		seen[root] = true
		roots = append(roots, root)
	}

	warn := func(format string, args ...any) {
		warnings = append(warnings, Warning{File: path, Msg: fmt.Sprintf(format, args...)})
	}

	for _, stmt := range logicalLines(source) {
		switch {
		case strings.HasPrefix(stmt, "import "):
			for _, target := range strings.Split(stmt[len("import "):], ",") {
				root, ok := importRoot(target)
				if !ok {
					warn("unparsable import target %q", strings.TrimSpace(target))
					continue
				}
				add(root)
			}
		case strings.HasPrefix(stmt, "from "):
			module, _, ok := strings.Cut(stmt[len("from "):], " import ")
			if !ok {
				warn("unparsable from-import %q", stmt)
				continue
			}
			module = strings.TrimSpace(module)
			if module == "" || module[0] == '.' {
				continue // relative import, no external root
			}
			root, _, _ := strings.Cut(module, ".")
			if !identRE.MatchString(root) {
				warn("unparsable module path %q", module)
				continue
			}
			add(root)
		}
	}

	return roots, warnings
}

// importRoot parses one target of an import statement ("a.b.c as x") and
// returns the first dotted segment.
func importRoot(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if name, _, ok := strings.Cut(target, " as "); ok {
		target = strings.TrimSpace(name)
	}
	root, _, _ := strings.Cut(target, ".")
	if !identRE.MatchString(root) {
		return "", false
	}
	return root, true
}

// logicalLines reduces source to a sequence of code-only logical lines.
// String literals and comments are stripped, backslash continuations are
// joined, and from-import statements with parenthesized name lists are
// folded into a single line. Leading indentation is trimmed so imports
// inside try/except or if blocks are seen like any other statement.
func logicalLines(source string) []string {
	var (
		out     []string
		pending string
		st      stripState
	)

	flush := func(line string) {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}

	for _, raw := range strings.Split(source, "\n") {
		var code string
		code, st = stripLine(raw, st)

		if pending != "" {
			code = pending + " " + strings.TrimSpace(code)
			pending = ""
		}
		trimmed := strings.TrimSpace(code)

		if strings.HasSuffix(trimmed, "\\") {
			pending = strings.TrimSuffix(trimmed, "\\")
			continue
		}

		// A from-import may spread a parenthesized name list over several
		// physical lines; accumulate until the parens balance. Other code
		// is irrelevant to extraction and never accumulated.
		isImport := strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ")
		if isImport && strings.Count(trimmed, "(") > strings.Count(trimmed, ")") {
			pending = trimmed
			continue
		}

		// Simple statements may share a line: "import os; import sys".
		for _, part := range strings.Split(trimmed, ";") {
			flush(part)
		}
	}
	if pending != "" {
		flush(pending)
	}

	return cleanParens(out)
}

// cleanParens removes the parentheses left by folded multi-line name lists
// so "from x import (a, b)" parses like its single-line form.
func cleanParens(lines []string) []string {
	for i, l := range lines {
		if strings.ContainsAny(l, "()") {
			l = strings.ReplaceAll(l, "(", " ")
			l = strings.ReplaceAll(l, ")", " ")
			lines[i] = strings.Join(strings.Fields(l), " ")
		}
	}
	return lines
}

// stripState tracks whether the scanner is inside a triple-quoted string
// across physical lines.
type stripState struct {
	inTriple bool
	quote    byte
}

// stripLine removes string literals and comments from one physical line,
// replacing them with nothing so import keywords inside strings are never
// misread as statements.
func stripLine(line string, st stripState) (string, stripState) {
	var b strings.Builder
	i := 0
	n := len(line)

	for i < n {
		if st.inTriple {
			end := strings.Index(line[i:], strings.Repeat(string(st.quote), 3))
			if end < 0 {
				return b.String(), st
			}
			i += end + 3
			st.inTriple = false
			continue
		}

		c := line[i]
		switch {
		case c == '#':
			return b.String(), st
		case c == '\'' || c == '"':
			if i+2 < n && line[i+1] == c && line[i+2] == c {
				st.inTriple = true
				st.quote = c
				i += 3
				continue
			}
			// Single-quoted string: scan to the closing quote on this line.
			j := i + 1
			for j < n {
				if line[j] == '\\' {
					j += 2
					continue
				}
				if line[j] == c {
					break
				}
				j++
			}
			if j >= n {
				// Unterminated on this line; drop the rest.
				return b.String(), st
			}
			i = j + 1
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), st
}
