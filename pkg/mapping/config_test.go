package mapping

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/reqcheck/pkg/errors"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigDir, ConfigFile)

	reqData := []byte("fastapi\npython-multipart\n")
	cfg := NewConfig("requirements.txt", reqData)
	cfg.RuntimeDependencies["fastapi"] = []string{"python-multipart"}
	cfg.PackageExtras["uvicorn"] = []string{"standard"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if loaded.Metadata.SourceRequirements != "requirements.txt" {
		t.Errorf("SourceRequirements = %q", loaded.Metadata.SourceRequirements)
	}
	if loaded.Metadata.GeneratorID == "" {
		t.Error("GeneratorID should be set")
	}
	if loaded.Metadata.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
	if !reflect.DeepEqual(loaded.RuntimeDependencies["fastapi"], []string{"python-multipart"}) {
		t.Errorf("RuntimeDependencies = %v", loaded.RuntimeDependencies)
	}
	if err := loaded.Validate(reqData); err != nil {
		t.Errorf("Validate() on unchanged content: %v", err)
	}
}

func TestConfigValidateMismatch(t *testing.T) {
	cfg := NewConfig("requirements.txt", []byte("requests==2.31.0\n"))

	err := cfg.Validate([]byte("requests==2.31.0\nflask\n"))
	if err == nil {
		t.Fatal("Validate() should fail after content changed")
	}
	if !errors.Is(err, errors.ErrCodeConfigMismatch) {
		t.Errorf("error code = %v, want CONFIG_MISMATCH", errors.GetCode(err))
	}
}

func TestConfigValidateLegacyNoHash(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate([]byte("anything")); err != nil {
		t.Errorf("config without provenance hash should pass: %v", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("LoadConfig() should fail on a missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadConfigCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("error code = %v, want PARSE_ERROR", errors.GetCode(err))
	}
}

func TestConfigTableLayering(t *testing.T) {
	cfg := NewConfig("requirements.txt", []byte("x\n"))
	cfg.PackageMappings["pil"] = "generated-pillow"
	cfg.EnsureOverrides().PackageMappings["pil"] = "override-pillow"

	table := cfg.Table()

	// User overrides beat generated entries, which beat defaults.
	if pkg, _ := table.Resolve("pil"); pkg != "override-pillow" {
		t.Errorf("Resolve(pil) = %q, want override-pillow", pkg)
	}
	// Defaults untouched by the config still resolve.
	if pkg, _ := table.Resolve("cv2"); pkg != "opencv-python" {
		t.Errorf("Resolve(cv2) = %q, want opencv-python", pkg)
	}
}

// fakeSource serves canned registry metadata for Generate tests.
type fakeSource struct {
	meta map[string]*PackageMeta
	errs map[string]error
}

func (f fakeSource) PackageMeta(ctx context.Context, name string, refresh bool) (*PackageMeta, error) {
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if m, ok := f.meta[name]; ok {
		return m, nil
	}
	return &PackageMeta{}, nil
}

func parseEntries(t *testing.T, text string) []requirements.Entry {
	t.Helper()
	entries, warnings := requirements.Parse(text)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return entries
}

func TestGenerate(t *testing.T) {
	reqData := []byte("fastapi\npython-multipart\nuvicorn\n")
	entries := parseEntries(t, string(reqData))

	src := fakeSource{meta: map[string]*PackageMeta{
		"fastapi": {
			// starlette is not declared and must be filtered out.
			RuntimeDeps: []string{"python-multipart", "starlette"},
		},
		"uvicorn": {
			Extras: map[string][]string{"standard": {"uvloop"}, "dev": {"pytest"}},
		},
	}}

	cfg, err := Generate(context.Background(), "requirements.txt", reqData, entries, src, GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !reflect.DeepEqual(cfg.RuntimeDependencies["fastapi"], []string{"python-multipart"}) {
		t.Errorf("RuntimeDependencies[fastapi] = %v, want declared deps only", cfg.RuntimeDependencies["fastapi"])
	}
	if _, ok := cfg.RuntimeDependencies["uvicorn"]; ok {
		t.Error("uvicorn has no declared runtime deps, entry should be absent")
	}
	if !reflect.DeepEqual(cfg.PackageExtras["uvicorn"], []string{"standard"}) {
		t.Errorf("PackageExtras[uvicorn] = %v, want [standard]", cfg.PackageExtras["uvicorn"])
	}
	if cfg.Metadata.SourceRequirementsHash == "" {
		t.Error("generated config should carry a provenance hash")
	}
}

func TestGenerateLookupFailureNonFatal(t *testing.T) {
	reqData := []byte("requests\nghost-package\n")
	entries := parseEntries(t, string(reqData))

	var logged []string
	src := fakeSource{
		meta: map[string]*PackageMeta{"requests": {}},
		errs: map[string]error{"ghost-package": os.ErrDeadlineExceeded},
	}

	cfg, err := Generate(context.Background(), "requirements.txt", reqData, entries, src, GenerateOptions{
		Logf: func(format string, args ...any) { logged = append(logged, format) },
	})
	if err != nil {
		t.Fatalf("Generate() must not fail on a lookup error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Generate() returned nil config")
	}
	if len(logged) != 1 {
		t.Errorf("lookup failure should be logged once, got %d", len(logged))
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := parseEntries(t, "requests\n")
	_, err := Generate(ctx, "requirements.txt", nil, entries, fakeSource{}, GenerateOptions{})
	if err == nil {
		t.Error("Generate() should return the context error when cancelled")
	}
}
