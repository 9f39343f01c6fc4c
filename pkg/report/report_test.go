package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/reqcheck/pkg/mapping"
	"github.com/matzehuels/reqcheck/pkg/match"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// buildResult assembles a representative match result: requests used from
// two files, python-multipart pulled in as a runtime dependency of fastapi,
// pandas unused, and one unmatched local import.
func buildResult(t *testing.T, root string) *match.Result {
	t.Helper()

	entries, warnings := requirements.Parse("requests==2.31.0\nfastapi>=0.100\npython-multipart==0.0.6\npandas==2.0.0\n")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	table := mapping.New()
	table.SetRuntimeDeps("fastapi", []string{"python-multipart"})

	records := []match.ImportRecord{
		{Root: "requests", File: filepath.Join(root, "app", "client.py")},
		{Root: "requests", File: filepath.Join(root, "app", "main.py")},
		{Root: "fastapi", File: filepath.Join(root, "app", "main.py")},
		{Root: "local_helper", File: filepath.Join(root, "app", "util.py")},
	}

	return match.Match(entries, records, table)
}

func TestVerified(t *testing.T) {
	res := buildResult(t, "/project")

	got := Verified(res)
	want := "fastapi>=0.100\npython-multipart==0.0.6\nrequests==2.31.0\n"
	if got != want {
		t.Errorf("Verified() = %q, want %q", got, want)
	}
}

func TestMapping(t *testing.T) {
	root := "/project"
	res := buildResult(t, root)

	out := Mapping(res, []string{root})

	for _, want := range []string{
		"USED REQUIREMENTS",
		"UNUSED REQUIREMENTS",
		"requests==2.31.0",
		"→ " + filepath.Join("app", "client.py"),
		"→ " + filepath.Join("app", "main.py"),
		"→ [Runtime dependency for fastapi]",
		"pandas==2.0.0",
		"# 1 requirements not imported in any scanned Python file:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("mapping output missing %q\n%s", want, out)
		}
	}

	// Paths are relativized against the source root.
	if strings.Contains(out, root+string(filepath.Separator)) {
		t.Errorf("mapping output should not contain absolute paths\n%s", out)
	}

	// Unused entries appear only in the unused section.
	usedSection := out[:strings.Index(out, "UNUSED REQUIREMENTS")]
	if strings.Contains(usedSection, "pandas") {
		t.Error("pandas is unused and must not appear in the used section")
	}
}

func TestUnmatchedMapping(t *testing.T) {
	root := "/project"
	res := buildResult(t, root)

	out := UnmatchedMapping(res, []string{root})

	if !strings.Contains(out, "• local-helper") {
		t.Errorf("unmatched output missing import key\n%s", out)
	}
	wantLine := "→ " + filepath.Join("app", "util.py") + ": import local-helper"
	if !strings.Contains(out, wantLine) {
		t.Errorf("unmatched output missing %q\n%s", wantLine, out)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	reqPath := filepath.Join(dir, "requirements.txt")
	res := buildResult(t, dir)

	files, err := Write(reqPath, []string{dir}, res)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if files.Verified != reqPath+VerifiedSuffix {
		t.Errorf("Verified path = %s", files.Verified)
	}
	for _, p := range []string{files.Verified, files.Mapping, files.Unmatched} {
		if p == "" {
			t.Fatal("expected all three report files")
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("report file %s not written: %v", p, err)
		}
	}
}

func TestWriteNoUnmatched(t *testing.T) {
	dir := t.TempDir()
	reqPath := filepath.Join(dir, "requirements.txt")

	entries, _ := requirements.Parse("requests\n")
	res := match.Match(entries, []match.ImportRecord{{Root: "requests", File: "a.py"}}, mapping.New())

	files, err := Write(reqPath, []string{dir}, res)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if files.Unmatched != "" {
		t.Error("no unmatched imports, so no unmatched-mapping file should be written")
	}
	if _, err := os.Stat(reqPath + UnmatchedSuffix); !os.IsNotExist(err) {
		t.Error("unmatched-mapping file should not exist on disk")
	}
}
