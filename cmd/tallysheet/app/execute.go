package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the tallysheet CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tallysheet",
		Short:   "Election results sheet reconciliation",
		Version: a.version,
		Long: `Tallysheet reconciles election results sheets against official totals.

Given the raw text lines of a results table (produced by an external OCR or
text extraction service) and the authoritative per-candidate totals for the
contest, it recovers which extracted column belongs to which candidate,
validates the per-booth records, and adjusts them so that booth sums plus
out-of-booth votes equal the official totals exactly.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.tallysheet.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("tallysheet {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// Persistent flags are defined above, so lookup errors are programming
	// errors.
	a.config.Verbose = mustGetBool(cmd, "verbose")
	a.config.Quiet = mustGetBool(cmd, "quiet")
	a.config.NoColor = a.config.NoColor || mustGetBool(cmd, "no-color")
	if level := mustGetString(cmd, "log-level"); level != "" {
		a.config.LogLevel = level
	}

	// Rebuild the logger with the final flag values.
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands attaches all subcommands to the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		a.newProcessCommand(),
		a.newValidateCommand(),
		a.newVersionCommand(),
	)
}

// ExitOnError prints the error and exits with a non-zero status.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// mustGetBool reads a bool flag that is known to exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return v
}

// mustGetString reads a string flag that is known to exist.
func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %q not defined: %v", name, err))
	}
	return v
}
