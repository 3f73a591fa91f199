// Package cli implements the cobra command tree for the catalog browser.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/keilerkonzept/catalog-browser/internal/config"
	"github.com/keilerkonzept/catalog-browser/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError marks err as a configuration or flag problem.
func usageError(err error) error {
	return &ExitError{Code: 2, Err: err}
}

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse, sort and filter an art catalog",
		Long: `catalog loads a list of art and historical items and lets you sort them,
narrow them down by medium, era, category and difficulty, and slice them by
period.

Run without a subcommand it opens the interactive browser when standard
output is a terminal and prints the list otherwise.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return usageError(err)
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())
			if cfg.NoColor {
				styles.SetColorProfile(termenv.Ascii)
			}

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isTerminal(cmd.OutOrStdout()) {
				return runBrowse(cmd)
			}

			return runList(cmd, &listOptions{output: outputText})
		},
	}

	d := config.Default()

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .catalog.yaml)")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", d.LogFormat, "log format: text, json")
	pf.String("log-file", d.LogFile, "write logs to this file while the browser is open")
	pf.Bool("no-color", d.NoColor, "disable colored output")
	pf.BoolP("quiet", "q", d.Quiet, "suppress non-essential output")
	pf.StringP("data", "d", d.Data, "data file (.json, .yaml, .csv, .db); bundled dataset when empty")
	pf.Bool("skip-invalid", d.SkipInvalid, "drop malformed entries instead of failing")
	pf.String("locale", d.Locale, "BCP 47 locale used to order names")
	pf.String("sort", d.Sort, "sort key: name, period-a, period-d")
	pf.Int("cache-size", d.CacheSize, "number of derived views kept in memory (0 disables)")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	// Register subcommands.
	cmd.AddCommand(
		newBrowseCommand(),
		newListCommand(),
		newFacetsCommand(),
		newVersionCommand(),
	)

	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
