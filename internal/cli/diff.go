package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/statelist/internal/fixture"
	"github.com/yildizm/statelist/internal/formatter"
)

var (
	diffOutputFile string
	diffExitCode   bool
)

// errChanges is returned with --exit-code when the lists differ
var errChanges = fmt.Errorf("lists differ")

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Print the staged changeset between two list files",
		Long: `Diff two YAML list files and print the batches that turn the first into
the second, in the order they would be animated.

Examples:
  statelist diff before.yaml after.yaml
  statelist diff before.yaml after.yaml -o json
  statelist diff before.yaml after.yaml -o markdown --out-file changes.md`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}

	cmd.Flags().StringVar(&diffOutputFile, "out-file", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&diffExitCode, "exit-code", false, "exit with an error when the lists differ")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	source, err := fixture.Load(args[0])
	if err != nil {
		return err
	}
	target, err := fixture.Load(args[1])
	if err != nil {
		return err
	}

	f, err := formatter.New(getOutputFormat(), useColor() && diffOutputFile == "")
	if err != nil {
		return err
	}

	report := formatter.NewReport(filepath.Base(args[0]), filepath.Base(args[1]), source, target)
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Computed %d stages with %d edits\n", len(report.Changes), report.Changes.ChangeCount())
	}

	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if err := writeOutput(cmd, output); err != nil {
		return err
	}

	if diffExitCode && !report.Changes.IsEmpty() {
		return errChanges
	}
	return nil
}

func writeOutput(cmd *cobra.Command, output []byte) error {
	if diffOutputFile == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}

	if err := validateOutputFilePath(diffOutputFile); err != nil {
		return fmt.Errorf("invalid output file: %w", err)
	}
	if err := os.WriteFile(diffOutputFile, output, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Output saved to: %s\n", diffOutputFile)
	}
	return nil
}

// validateOutputFilePath validates that an output path is safe to write
func validateOutputFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	if strings.Contains(filepath.Clean(path), "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	return nil
}
