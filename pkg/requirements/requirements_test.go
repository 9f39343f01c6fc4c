package requirements

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Pillow", "pillow"},
		{"underscores", "typing_extensions", "typing-extensions"},
		{"dots", "zope.interface", "zope-interface"},
		{"mixed run", "a.-_b", "a-b"},
		{"already normal", "requests", "requests"},
		{"whitespace", "  Flask  ", "flask"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Entry
		wantErr bool
	}{
		{
			name: "pinned",
			line: "requests==2.31.0",
			want: Entry{Raw: "requests==2.31.0", Name: "requests", Normalized: "requests", Spec: "==2.31.0"},
		},
		{
			name: "bare name",
			line: "flask",
			want: Entry{Raw: "flask", Name: "flask", Normalized: "flask"},
		},
		{
			name: "extras",
			line: "uvicorn[standard]>=0.23",
			want: Entry{Raw: "uvicorn[standard]>=0.23", Name: "uvicorn", Normalized: "uvicorn", Spec: ">=0.23", Extras: []string{"standard"}},
		},
		{
			name: "marker",
			line: `pywin32>=1.0 ; sys_platform == "win32"`,
			want: Entry{Raw: `pywin32>=1.0 ; sys_platform == "win32"`, Name: "pywin32", Normalized: "pywin32", Spec: ">=1.0", Marker: `sys_platform == "win32"`},
		},
		{
			name: "multiple extras",
			line: "celery[redis, auth]",
			want: Entry{Raw: "celery[redis, auth]", Name: "celery", Normalized: "celery", Extras: []string{"redis", "auth"}},
		},
		{
			name:    "malformed",
			line:    "===broken",
			wantErr: true,
		},
		{
			name:    "unterminated extras",
			line:    "celery[redis",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLine(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	text := `# production deps
requests==2.31.0
Flask>=2.0  # web framework

-r base.txt
--index-url https://example.invalid/simple

typing_extensions
git+https://github.com/pallets/click.git#egg=click
https://example.invalid/pkg.tar.gz
`
	entries, warnings := Parse(text)

	var names []string
	for _, e := range entries {
		names = append(names, e.Normalized)
	}
	want := []string{"requests", "flask", "typing-extensions", "click"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("parsed names = %v, want %v", names, want)
	}

	if e := entries[1]; e.Spec != ">=2.0" {
		t.Errorf("inline comment should be stripped, spec = %q", e.Spec)
	}

	// The bare URL without an egg fragment is the only warning.
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].Line != 10 {
		t.Errorf("warning line = %d, want 10", warnings[0].Line)
	}
}

func TestParseDuplicateLastWinsFirstPosition(t *testing.T) {
	entries, _ := Parse("requests==1.0\nflask\nrequests==2.31.0\n")

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Raw != "requests==2.31.0" {
		t.Errorf("entries[0].Raw = %q, later line should win", entries[0].Raw)
	}
	if entries[1].Normalized != "flask" {
		t.Errorf("entries[1] = %q, first-seen order should hold", entries[1].Normalized)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("requests\n???bad\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, warnings, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Normalized != "requests" {
		t.Errorf("entries = %+v, want just requests", entries)
	}
	if len(warnings) != 1 || warnings[0].File != path {
		t.Errorf("warnings = %+v, want one warning carrying the file path", warnings)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, _, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ParseFile() on a missing file should error")
	}
}

func TestParsePyproject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	content := `
[project]
name = "demo"
dependencies = [
  "requests==2.31.0",
  "Pillow>=9.0",
]

[project.optional-dependencies]
dev = ["pytest>=7.0"]
docs = ["sphinx"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, warnings, err := ParsePyproject(path)
	if err != nil {
		t.Fatalf("ParsePyproject() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Normalized)
	}
	// Main dependencies first, then optional groups in sorted group order.
	want := []string{"requests", "pillow", "pytest", "sphinx"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestIsPyproject(t *testing.T) {
	if !IsPyproject("some/dir/pyproject.toml") {
		t.Error("pyproject.toml should be detected")
	}
	if IsPyproject("requirements.txt") {
		t.Error("requirements.txt is not a pyproject manifest")
	}
}
