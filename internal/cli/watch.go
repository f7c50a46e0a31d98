package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/statelist/internal/fixture"
	"github.com/yildizm/statelist/internal/logger"
	"github.com/yildizm/statelist/internal/state"
	"github.com/yildizm/statelist/internal/ui"
)

var watchInit bool

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Show a list file and animate every change to it",
		Long: `Display a YAML list file and re-apply it whenever the file changes.

Each save is diffed against what is on screen, so edits, moves and deletes
animate in place. A file that fails to parse is shown as an error row;
select it to read the file again. Press q to stop watching.

Examples:
  statelist watch todo.yaml
  statelist watch --init todo.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchInit, "init", false, "write the sample list first if the file does not exist")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if watchInit && !fileExists(filename) {
		if err := fixture.Save(filename, fixture.Sample().ViewState()); err != nil {
			return err
		}
	}

	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	log, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	load := func() (state.ViewState, error) {
		return fixture.Load(filename)
	}

	opts := newUIOptions("watching "+filepath.Base(filename), load)
	opts.Logger = log
	program := ui.NewProgram(opts)

	watcher, target, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		err := runWatchLoop(ctx, watcher, target, cfg.Watch.Debounce, log, func() {
			program.Send(reloadFile(filename, load))
		})
		if err != nil {
			log.WarnWithFields("watch stopped", []logger.Field{logger.Error(err)})
		}
	}()

	_, err = program.Run()
	return err
}

// reloadFile reads the list again and turns the result into a UI message
func reloadFile(filename string, load func() (state.ViewState, error)) tea.Msg {
	v, err := load()
	if err != nil {
		return ui.ShowErrorMsg{
			Title:       "Could not read " + filepath.Base(filename),
			Description: err.Error(),
			Retry: func() tea.Msg {
				return reloadFile(filename, load)
			},
		}
	}
	return ui.SetStateMsg{State: v}
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher, log *logger.Logger) {
	if err := watcher.Close(); err != nil {
		log.WarnWithFields("failed to close watcher", []logger.Field{logger.Error(err)})
	}
}

// createWatcher watches the directory holding filename, so editors that
// replace the file on save are still followed. It returns the absolute path
// events are matched against.
func createWatcher(filename string) (*fsnotify.Watcher, string, error) {
	target, err := filepath.Abs(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, "", fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, target, nil
}

// runWatchLoop calls onChange once target has been quiet for debounce after
// a write or create
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, debounce time.Duration, log *logger.Logger, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isListChange(event, target) {
				continue
			}
			log.DebugWithFields("file changed", []logger.Field{logger.F("op", event.Op.String())})
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.WarnWithFields("watcher error", []logger.Field{logger.Error(err)})
		}
	}
}

// isListChange reports whether event changed the watched file's content
func isListChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("list file must have .yaml or .yml extension")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
