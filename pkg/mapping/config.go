package mapping

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/reqcheck/pkg/cache"
	"github.com/matzehuels/reqcheck/pkg/errors"
)

// Default locations for the persisted mapping config, relative to the
// working directory.
const (
	ConfigDir  = ".reqcheck"
	ConfigFile = "config.json"
)

// DefaultConfigPath returns the conventional config location.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir, ConfigFile)
}

// Metadata is the provenance block of a persisted config. The external
// validation layer uses it to detect that a config was generated from a
// different requirements file than the one being verified.
type Metadata struct {
	SourceRequirements     string    `json:"source_requirements"`
	SourceRequirementsHash string    `json:"source_requirements_hash"`
	GeneratorID            string    `json:"generator_id"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// Overrides holds user-managed entries that take precedence over both the
// defaults and generated config entries.
type Overrides struct {
	PackageMappings     map[string]string   `json:"package_mappings,omitempty"`
	RuntimeDependencies map[string][]string `json:"runtime_dependencies,omitempty"`
}

// Config is the on-disk mapping configuration.
type Config struct {
	Metadata            Metadata            `json:"_metadata"`
	PackageMappings     map[string]string   `json:"package_mappings"`
	RuntimeDependencies map[string][]string `json:"runtime_dependencies"`
	PackageExtras       map[string][]string `json:"package_extras"`
	UserOverrides       *Overrides          `json:"user_overrides,omitempty"`
}

// NewConfig creates a config with provenance for the given requirements
// file content and the compiled-in package mappings as a starting point.
func NewConfig(requirementsPath string, requirementsData []byte) *Config {
	mappings := make(map[string]string, len(defaultPackageMappings))
	for imp, pkg := range defaultPackageMappings {
		mappings[imp] = pkg
	}
	return &Config{
		Metadata: Metadata{
			SourceRequirements:     filepath.Base(requirementsPath),
			SourceRequirementsHash: cache.Hash(requirementsData),
			GeneratorID:            uuid.NewString(),
			GeneratedAt:            time.Now().UTC(),
		},
		PackageMappings:     mappings,
		RuntimeDependencies: make(map[string][]string),
		PackageExtras:       make(map[string][]string),
	}
}

// LoadConfig reads a config file from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no mapping config at %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid mapping config %s", path)
	}
	return &cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate checks the config's provenance against the requirements file
// content it is about to be used with. A hash mismatch means the config
// was generated from a different file and returns a CONFIG_MISMATCH error;
// callers must require explicit acknowledgment before proceeding.
func (c *Config) Validate(requirementsData []byte) error {
	if c.Metadata.SourceRequirementsHash == "" {
		return nil // legacy config without provenance
	}
	if c.Metadata.SourceRequirementsHash != cache.Hash(requirementsData) {
		return errors.New(errors.ErrCodeConfigMismatch,
			"mapping config was generated from a different %s (content changed since)",
			c.Metadata.SourceRequirements)
	}
	return nil
}

// Table builds the effective lookup table: compiled-in defaults, then this
// config's entries, then user overrides, each layer winning key-by-key.
func (c *Config) Table() *Table {
	t := Default()

	layer := New()
	for imp, pkg := range c.PackageMappings {
		layer.SetMapping(imp, pkg)
	}
	for pkg, deps := range c.RuntimeDependencies {
		layer.SetRuntimeDeps(pkg, deps)
	}
	for pkg, extras := range c.PackageExtras {
		layer.SetExtras(pkg, extras)
	}
	t.Merge(layer)

	if c.UserOverrides != nil {
		user := New()
		for imp, pkg := range c.UserOverrides.PackageMappings {
			user.SetMapping(imp, pkg)
		}
		for pkg, deps := range c.UserOverrides.RuntimeDependencies {
			user.SetRuntimeDeps(pkg, deps)
		}
		t.Merge(user)
	}

	return t
}

// EnsureOverrides returns the config's override section, creating it on
// first use.
func (c *Config) EnsureOverrides() *Overrides {
	if c.UserOverrides == nil {
		c.UserOverrides = &Overrides{}
	}
	if c.UserOverrides.PackageMappings == nil {
		c.UserOverrides.PackageMappings = make(map[string]string)
	}
	if c.UserOverrides.RuntimeDependencies == nil {
		c.UserOverrides.RuntimeDependencies = make(map[string][]string)
	}
	return c.UserOverrides
}
