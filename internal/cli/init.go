package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reqcheck/pkg/errors"
	"github.com/matzehuels/reqcheck/pkg/mapping"
)

// initOpts holds the command-line flags for the init command.
type initOpts struct {
	req     string // requirements file to generate from
	update  bool   // allow overwriting an existing config
	noCache bool   // bypass the PyPI response cache
}

// initCommand creates the init command. It fetches PyPI metadata for every
// declared requirement and persists the generated mapping config to
// .reqcheck/config.json, where verify picks it up automatically.
func (c *CLI) initCommand() *cobra.Command {
	opts := initOpts{req: defaultRequirements}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .reqcheck/config.json from PyPI metadata",
		Long: `Create a mapping config for the current project.

Runtime dependencies reported by PyPI are kept only when they are themselves
declared in the requirements file. An existing config is never overwritten
without --update; user overrides survive the update.

Examples:
  reqcheck init
  reqcheck init --req pyproject.toml
  reqcheck init --update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.req, "req", opts.req, "requirements file to generate the config from")
	cmd.Flags().BoolVar(&opts.update, "update", false, "regenerate an existing config")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the PyPI response cache")

	return cmd
}

func (c *CLI) runInit(cmd *cobra.Command, opts initOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	path := mapping.DefaultConfigPath()

	var existing *mapping.Config
	if _, err := os.Stat(path); err == nil {
		if !opts.update {
			return errors.New(errors.ErrCodeInvalidInput,
				"%s already exists, use --update to regenerate", path)
		}
		existing, err = mapping.LoadConfig(path)
		if err != nil {
			logger.Warnf("Existing config unreadable, regenerating from scratch: %v", err)
		}
	}

	cfg, err := c.generateConfig(cmd, opts.req, opts.noCache)
	if err != nil {
		return err
	}
	if existing != nil && existing.UserOverrides != nil {
		cfg.UserOverrides = existing.UserOverrides
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	printSuccess("Created: %s", path)
	printDetail("Runtime dependencies for %d packages, extras for %d", len(cfg.RuntimeDependencies), len(cfg.PackageExtras))
	printNextStep("Verify your project", fmt.Sprintf("reqcheck verify %s <source-path>", opts.req))
	return nil
}

// generateConfig parses the requirements file and builds a config from PyPI
// metadata, with a spinner while the network work runs. noCache disables the
// response cache for both reads and writes.
func (c *CLI) generateConfig(cmd *cobra.Command, reqPath string, noCache bool) (*mapping.Config, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	entries, warnings, err := loadRequirements(reqPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warnf("%s", w)
	}
	logger.Infof("Found %d packages in %s", len(entries), reqPath)

	data, err := os.ReadFile(reqPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", reqPath)
	}

	client := c.newRegistryClient(ctx, noCache)
	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching PyPI metadata for %d packages...", len(entries)))
	sp.Start()

	prog := newProgress(logger)
	cfg, err := mapping.Generate(ctx, reqPath, data, entries, registrySource{client}, mapping.GenerateOptions{
		Refresh: noCache,
		Logf:    logger.Warnf,
		Progress: func(done, total int, name string) {
			logger.Debugf("Fetching %s (%d/%d)", name, done, total)
		},
	})
	if err != nil {
		sp.StopWithError("Metadata fetch aborted")
		return nil, err
	}
	sp.Stop()
	prog.done(fmt.Sprintf("Fetched metadata for %d packages", len(entries)))

	return cfg, nil
}
