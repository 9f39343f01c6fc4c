package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// checkDepsOpts holds the command-line flags for the check-deps command.
type checkDepsOpts struct {
	output  string // write the generated config here instead of stdout
	noCache bool   // bypass the PyPI response cache
}

// checkDepsCommand creates the check-deps command. Unlike init it never
// touches .reqcheck/; the generated config goes to --output or stdout so it
// can be inspected or committed elsewhere.
func (c *CLI) checkDepsCommand() *cobra.Command {
	opts := checkDepsOpts{}

	cmd := &cobra.Command{
		Use:   "check-deps <requirements-file>",
		Short: "Generate mapping config from PyPI metadata without installing it",
		Long: `Fetch PyPI metadata for each declared requirement and print the resulting
mapping config.

Examples:
  reqcheck check-deps requirements.txt
  reqcheck check-deps requirements.txt --output mappings.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheckDeps(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path for the config (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the PyPI response cache")

	return cmd
}

func (c *CLI) runCheckDeps(cmd *cobra.Command, reqPath string, opts checkDepsOpts) error {
	cfg, err := c.generateConfig(cmd, reqPath, opts.noCache)
	if err != nil {
		return err
	}

	if opts.output == "" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := cfg.Save(opts.output); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	printSuccess("Created: %s", opts.output)
	return nil
}
