package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reqcheck/pkg/errors"
	"github.com/matzehuels/reqcheck/pkg/mapping"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// mappingCommand creates the mapping override management command. Overrides
// live in the user_overrides section of .reqcheck/config.json and take
// precedence over both compiled-in defaults and generated entries.
func (c *CLI) mappingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage import-to-package mapping overrides",
	}

	cmd.AddCommand(c.mappingListCommand())
	cmd.AddCommand(c.mappingAddCommand())
	cmd.AddCommand(c.mappingRemoveCommand())
	cmd.AddCommand(c.mappingClearCommand())

	return cmd
}

func (c *CLI) mappingListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mapping overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			if cfg.UserOverrides == nil || len(cfg.UserOverrides.PackageMappings) == 0 {
				printInfo("No mapping overrides")
				return nil
			}
			for _, imp := range sortedMapKeys(cfg.UserOverrides.PackageMappings) {
				printKeyValue(imp, cfg.UserOverrides.PackageMappings[imp])
			}
			return nil
		},
	}
}

func (c *CLI) mappingAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <import> <package>",
		Short: "Map an import name to a declared package",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, pkg := args[0], args[1]
			if err := errors.ValidateImportName(imp); err != nil {
				return err
			}
			if err := errors.ValidatePythonPackageName(pkg); err != nil {
				return err
			}
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			cfg.EnsureOverrides().PackageMappings[requirements.Normalize(imp)] = requirements.Normalize(pkg)
			if err := cfg.Save(mapping.DefaultConfigPath()); err != nil {
				return err
			}
			printSuccess("Mapped %s to %s", imp, pkg)
			return nil
		},
	}
}

func (c *CLI) mappingRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <import>",
		Short: "Remove a mapping override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			key := requirements.Normalize(args[0])
			if cfg.UserOverrides == nil || cfg.UserOverrides.PackageMappings[key] == "" {
				printInfo("No override for %s", args[0])
				return nil
			}
			delete(cfg.UserOverrides.PackageMappings, key)
			if err := cfg.Save(mapping.DefaultConfigPath()); err != nil {
				return err
			}
			printSuccess("Removed override for %s", args[0])
			return nil
		},
	}
}

func (c *CLI) mappingClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all mapping overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			n := 0
			if cfg.UserOverrides != nil {
				n = len(cfg.UserOverrides.PackageMappings)
				cfg.UserOverrides.PackageMappings = nil
			}
			if err := cfg.Save(mapping.DefaultConfigPath()); err != nil {
				return err
			}
			printSuccess("Cleared %d mapping overrides", n)
			return nil
		},
	}
}

// runtimeCommand creates the runtime dependency override command.
func (c *CLI) runtimeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runtime",
		Short: "Manage runtime dependency overrides",
		Long: `Runtime dependency overrides mark packages as used whenever another used
package needs them at runtime without being imported (e.g. uvloop for
uvicorn).`,
	}

	cmd.AddCommand(c.runtimeAddCommand())
	cmd.AddCommand(c.runtimeRemoveCommand())

	return cmd
}

func (c *CLI) runtimeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <package> <dependency>...",
		Short: "Declare runtime dependencies for a package",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := errors.ValidatePythonPackageName(name); err != nil {
					return err
				}
			}
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			deps := make([]string, 0, len(args)-1)
			for _, d := range args[1:] {
				deps = append(deps, requirements.Normalize(d))
			}
			cfg.EnsureOverrides().RuntimeDependencies[requirements.Normalize(args[0])] = deps
			if err := cfg.Save(mapping.DefaultConfigPath()); err != nil {
				return err
			}
			printSuccess("%s now implies %s", args[0], strings.Join(args[1:], ", "))
			return nil
		},
	}
}

func (c *CLI) runtimeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <package>",
		Short: "Remove a runtime dependency override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			key := requirements.Normalize(args[0])
			if cfg.UserOverrides == nil || cfg.UserOverrides.RuntimeDependencies[key] == nil {
				printInfo("No runtime override for %s", args[0])
				return nil
			}
			delete(cfg.UserOverrides.RuntimeDependencies, key)
			if err := cfg.Save(mapping.DefaultConfigPath()); err != nil {
				return err
			}
			printSuccess("Removed runtime override for %s", args[0])
			return nil
		},
	}
}

// loadProjectConfig loads .reqcheck/config.json, pointing users at init when
// the project has no config yet.
func loadProjectConfig() (*mapping.Config, error) {
	cfg, err := mapping.LoadConfig(mapping.DefaultConfigPath())
	if err != nil {
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			return nil, errors.New(errors.ErrCodeFileNotFound,
				"no mapping config found, run 'reqcheck init' first")
		}
		return nil, err
	}
	return cfg, nil
}

func sortedMapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
