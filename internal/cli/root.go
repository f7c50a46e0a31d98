package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/yildizm/statelist/internal/config"
	"github.com/yildizm/statelist/internal/emoji"
	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	logFile   string

	// cfg is the effective configuration, loaded before every command
	cfg = config.DefaultConfig()
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "statelist",
		Short: "Animated, diff-driven list views for the terminal",
		Long: `statelist renders sectioned lists that animate from one state to the next.

Every new list is diffed against the one on screen and applied as a short
sequence of batches: updates, deletes, section inserts and moves, row
inserts and moves, and finally section updates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)

			if cmd.Annotations[skipConfigLoad] == "" {
				loaded, err := config.NewLoader().LoadConfig(cfgFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			applyColorMode()
			if !ui.SetThemeByName(cfg.Output.Theme) && cfg.Output.Theme != "" {
				return fmt.Errorf("unknown theme: %s", cfg.Output.Theme)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs of interactive commands to this file")

	// Add subcommands
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "statelist %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// applyColorMode forces the lipgloss color profile from flags and config
func applyColorMode() {
	switch {
	case noColor || cfg.Output.ColorMode == "never" || ui.IsColorDisabled():
		lipgloss.SetColorProfile(termenv.Ascii)
	case cfg.Output.ColorMode == "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// openLogger returns the logger for interactive commands. Logs go to the
// log file when one is configured and are discarded otherwise, since the
// terminal belongs to the UI.
func openLogger() (*logger.Logger, func(), error) {
	log := logger.NewWithCallback("statelist", isVerbose)

	path := logFile
	if path == "" {
		path = cfg.Output.LogFile
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}

	// #nosec G304 - log path comes from the user's own flags or config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)

	return log, func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}, nil
}

// Global helpers
func isVerbose() bool {
	return verbose || cfg.Output.Verbose
}

func getOutputFormat() string {
	if outputFmt != "" {
		return outputFmt
	}
	return cfg.Output.DefaultFormat
}

func useColor() bool {
	return !noColor && cfg.Output.ColorMode != "never" && !ui.IsColorDisabled()
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
