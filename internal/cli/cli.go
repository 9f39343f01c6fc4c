// Package cli implements the reqcheck command-line interface.
//
// This package provides commands for verifying a requirements file against
// the imports actually found in Python source trees, generating mapping
// configuration from PyPI metadata, editing user overrides, and managing the
// registry response cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - verify: Match requirements against imports and write report files
//   - init: Create .reqcheck/config.json from PyPI metadata
//   - check-deps: Generate mapping configuration without installing it
//   - mapping / runtime: Edit user overrides in the config file
//   - cache: Manage the PyPI response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reqcheck/pkg/buildinfo"
	"github.com/matzehuels/reqcheck/pkg/cache"
	"github.com/matzehuels/reqcheck/pkg/mapping"
	"github.com/matzehuels/reqcheck/pkg/pypi"
)

const (
	// appName is the application name used for directories and display.
	appName = "reqcheck"

	// defaultRequirements is the manifest consulted when none is given.
	defaultRequirements = "requirements.txt"

	// defaultCacheTTL bounds how long PyPI responses are reused.
	defaultCacheTTL = 24 * time.Hour
)

// redisEnv names the environment variable that, when set to a Redis address,
// switches the response cache to a shared Redis backend. Useful in CI where
// many jobs verify the same requirement sets.
const redisEnv = "REQCHECK_REDIS"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The logger is attached to the command context so subcommands can retrieve
// it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Reqcheck reconciles Python requirements with actual imports",
		Long:         `Reqcheck scans Python source trees for imports and matches them against a requirements file, reporting which declared dependencies are used, unused, or missing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.checkDepsCommand())
	root.AddCommand(c.mappingCommand())
	root.AddCommand(c.runtimeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRegistryClient creates a PyPI client backed by the configured cache.
func (c *CLI) newRegistryClient(ctx context.Context, noCache bool) *pypi.Client {
	return pypi.NewClient(c.newCacheBackend(ctx, noCache), defaultCacheTTL)
}

// newCacheBackend selects the response cache backend. REQCHECK_REDIS takes
// priority so CI fleets can share one cache; otherwise responses land in the
// per-user file cache. Backend failures degrade to a null cache rather than
// blocking the command.
func (c *CLI) newCacheBackend(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if addr := os.Getenv(redisEnv); addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			return rc
		}
		c.Logger.Warnf("Redis cache unavailable, falling back to file cache: %v", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// registrySource adapts the PyPI client to the mapping generator.
type registrySource struct {
	client *pypi.Client
}

func (s registrySource) PackageMeta(ctx context.Context, name string, refresh bool) (*mapping.PackageMeta, error) {
	info, err := s.client.FetchPackage(ctx, name, refresh)
	if err != nil {
		return nil, err
	}
	return &mapping.PackageMeta{RuntimeDeps: info.RuntimeDeps, Extras: info.Extras}, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/reqcheck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
