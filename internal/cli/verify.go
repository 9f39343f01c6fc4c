package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reqcheck/pkg/errors"
	"github.com/matzehuels/reqcheck/pkg/mapping"
	"github.com/matzehuels/reqcheck/pkg/match"
	"github.com/matzehuels/reqcheck/pkg/pyscan"
	"github.com/matzehuels/reqcheck/pkg/report"
	"github.com/matzehuels/reqcheck/pkg/requirements"
)

// verifyOpts holds the command-line flags for the verify command.
type verifyOpts struct {
	config      string // explicit config file path
	force       bool   // proceed despite a config/requirements mismatch
	interactive bool   // browse the result in a terminal UI
}

// verifyCommand creates the verify command.
//
// Verify parses the requirements file (requirements.txt or pyproject.toml),
// scans the given source trees for imports, matches the two through the
// mapping table, and writes the .verified/.mapping/.unmatched-mapping report
// files next to the requirements file.
func (c *CLI) verifyCommand() *cobra.Command {
	opts := verifyOpts{}

	cmd := &cobra.Command{
		Use:   "verify <requirements-file> <source-path>...",
		Short: "Verify a requirements file against actual imports",
		Long: `Verify a requirements file against the imports actually found in Python sources.

Examples:
  reqcheck verify requirements.txt ./app
  reqcheck verify requirements.txt ./app ./tests
  reqcheck verify pyproject.toml ./src --config mappings.json
  reqcheck verify requirements.txt ./app --interactive`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context(), args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVar(&opts.config, "config", "", "mapping config file (default .reqcheck/config.json when present)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "proceed even if the config was generated from a different requirements file")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the result in a terminal UI")

	return cmd
}

func (c *CLI) runVerify(ctx context.Context, reqPath string, sourceRoots []string, opts verifyOpts) error {
	logger := loggerFromContext(ctx)

	for _, root := range sourceRoots {
		if _, err := os.Stat(root); err != nil {
			return errors.New(errors.ErrCodeInvalidPath, "source path not found: %s", root)
		}
	}

	entries, warnings, err := loadRequirements(reqPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warnf("%s", w)
	}
	logger.Infof("Parsed %d requirements from %s", len(entries), reqPath)

	table, err := c.loadTable(reqPath, opts, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var files []string
	for _, root := range sourceRoots {
		found, err := pyscan.FindSourceFiles(root)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", root)
		}
		files = append(files, found...)
	}
	imports, scanWarnings := pyscan.ScanAll(files)
	for _, w := range scanWarnings {
		logger.Warnf("%s", w)
	}
	prog.done(fmt.Sprintf("Scanned %d Python files", len(files)))

	var records []match.ImportRecord
	for _, fi := range imports {
		for _, root := range fi.Roots {
			records = append(records, match.ImportRecord{Root: root, File: fi.Path})
		}
	}

	res := match.Match(entries, records, table)

	if opts.interactive {
		return browseResult(res)
	}

	written, err := report.Write(reqPath, sourceRoots, res)
	if err != nil {
		return err
	}

	printSuccess("Created: %s", written.Verified)
	printDetail("Contains %d verified dependencies", len(res.Used))
	printSuccess("Created: %s", written.Mapping)
	if written.Unmatched != "" {
		printSuccess("Created: %s", written.Unmatched)
	}

	printNewline()
	printSummary(len(res.Used), len(res.Unused), len(res.Unmatched))

	if len(res.Unused) > 0 {
		printNewline()
		printWarning("Unused requirements (%d):", len(res.Unused))
		for _, e := range res.Unused {
			printDetail("- %s", e.Raw)
		}
	}

	if len(res.Unmatched) > 0 {
		printNewline()
		printWarning("Unmatched imports (%d):", len(res.Unmatched))
		printDetail("These might be local modules or missing from %s", reqPath)
		for _, um := range res.Unmatched {
			printDetail("- %s", um.Key)
		}
	}

	printExtrasHints(res)

	printNewline()
	printNextStep("Browse the result", fmt.Sprintf("reqcheck verify %s %s --interactive", reqPath, strings.Join(sourceRoots, " ")))
	return nil
}

// loadRequirements parses either a pip requirements file or a pyproject.toml
// [project] table, depending on the file name.
func loadRequirements(path string) ([]requirements.Entry, []requirements.Warning, error) {
	if requirements.IsPyproject(path) {
		return requirements.ParsePyproject(path)
	}
	return requirements.ParseFile(path)
}

// loadTable resolves the effective mapping table. An explicit --config that
// cannot be loaded is an error; the conventional .reqcheck/config.json is
// used when present and silently skipped otherwise. Provenance is validated
// against the current requirements content unless --force is given.
func (c *CLI) loadTable(reqPath string, opts verifyOpts, logger interface{ Warnf(string, ...any) }) (*mapping.Table, error) {
	path := opts.config
	if path == "" {
		path = mapping.DefaultConfigPath()
		if _, err := os.Stat(path); err != nil {
			return mapping.Default(), nil
		}
	}

	cfg, err := mapping.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	reqData, err := os.ReadFile(reqPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", reqPath)
	}
	if err := cfg.Validate(reqData); err != nil {
		if !opts.force {
			return nil, fmt.Errorf("%w\nRegenerate it with 'reqcheck init --update' or pass --force to proceed anyway", err)
		}
		logger.Warnf("Proceeding despite config mismatch (--force): %v", err)
	}

	return cfg.Table(), nil
}

// printExtrasHints surfaces advisory extras for used requirements.
func printExtrasHints(res *match.Result) {
	var hints []string
	for _, u := range res.Used {
		if len(u.Extras) > 0 {
			hints = append(hints, fmt.Sprintf("%s[%s]", u.Entry.Name, strings.Join(u.Extras, ",")))
		}
	}
	if len(hints) == 0 {
		return
	}
	printNewline()
	printInfo("Recommended extras:")
	for _, h := range hints {
		printDetail("Consider %s for additional features", h)
	}
}
