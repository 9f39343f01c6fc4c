package pyscan

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.py"), "import os\n")
	writeFile(t, filepath.Join(dir, "pkg", "util.py"), "import sys\n")
	writeFile(t, filepath.Join(dir, "README.md"), "docs\n")
	writeFile(t, filepath.Join(dir, ".venv", "lib", "site.py"), "import venv_only\n")
	writeFile(t, filepath.Join(dir, "__pycache__", "main.cpython-312.py"), "cached\n")
	writeFile(t, filepath.Join(dir, "node_modules", "x.py"), "import js\n")

	files, err := FindSourceFiles(dir)
	if err != nil {
		t.Fatalf("FindSourceFiles() error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "main.py"),
		filepath.Join(dir, "pkg", "util.py"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFindSourceFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")
	writeFile(t, path, "import os\n")

	files, err := FindSourceFiles(path)
	if err != nil {
		t.Fatalf("FindSourceFiles() error: %v", err)
	}
	if !reflect.DeepEqual(files, []string{path}) {
		t.Errorf("files = %v, want [%s]", files, path)
	}
}

func TestFindSourceFilesMissing(t *testing.T) {
	if _, err := FindSourceFiles(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("FindSourceFiles() on a missing path should error")
	}
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.py")
	b := filepath.Join(dir, "b.py")
	c := filepath.Join(dir, "c.py")
	writeFile(t, a, "import requests\nimport os\n")
	writeFile(t, b, "from flask import Flask\n")
	writeFile(t, c, "x = 1\n")

	results, warnings := ScanAll([]string{a, b, c})
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Results must come back in input order regardless of which worker
	// finished first.
	if results[0].Path != a || results[1].Path != b || results[2].Path != c {
		t.Errorf("result order = %v %v %v, want input order", results[0].Path, results[1].Path, results[2].Path)
	}
	if !reflect.DeepEqual(results[0].Roots, []string{"requests", "os"}) {
		t.Errorf("a.py roots = %v", results[0].Roots)
	}
	if !reflect.DeepEqual(results[1].Roots, []string{"flask"}) {
		t.Errorf("b.py roots = %v", results[1].Roots)
	}
	if results[2].Roots != nil {
		t.Errorf("c.py roots = %v, want none", results[2].Roots)
	}
}

func TestScanAllManyFiles(t *testing.T) {
	// More files than workers, to exercise the pool.
	dir := t.TempDir()
	var files []string
	for i := 0; i < 50; i++ {
		path := filepath.Join(dir, "f"+string(rune('a'+i%26))+string(rune('a'+i/26))+".py")
		writeFile(t, path, "import requests\n")
		files = append(files, path)
	}
	sort.Strings(files)

	results, _ := ScanAll(files)
	for i, r := range results {
		if r.Path != files[i] {
			t.Fatalf("results[%d].Path = %s, want %s", i, r.Path, files[i])
		}
		if !reflect.DeepEqual(r.Roots, []string{"requests"}) {
			t.Fatalf("results[%d].Roots = %v", i, r.Roots)
		}
	}
}

func TestScanAllUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.py")

	results, warnings := ScanAll([]string{missing})
	if len(results) != 1 || results[0].Roots != nil {
		t.Errorf("unreadable file should yield no imports, got %v", results)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one read failure", warnings)
	}
}

func TestScanAllBinarySkipped(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin.py")
	if err := os.WriteFile(bin, []byte{0x89, 0x00, 0x50}, 0o644); err != nil {
		t.Fatal(err)
	}

	results, warnings := ScanAll([]string{bin})
	if results[0].Roots != nil {
		t.Errorf("binary file should yield no imports, got %v", results[0].Roots)
	}
	if len(warnings) != 0 {
		t.Errorf("binary skip should be silent, got %v", warnings)
	}
}
