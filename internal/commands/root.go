package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/buildinfo"
	"github.com/cleared-dev/pocket/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "pocket",
		Short:   "Personal budget tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath(), "path to pocket.yaml")
	flags.StringVar(&opts.envFile, "env-file", "", "load environment from this file instead of ./.env")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.plain, "plain", false, "print raw markdown without terminal styling")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newRemoveCommand(opts),
		newClearCommand(opts),
		newListCommand(opts),
		newSummaryCommand(opts),
		newChartCommand(opts),
		newReportCommand(opts),
		newCategoriesCommand(opts),
		newWatchCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
