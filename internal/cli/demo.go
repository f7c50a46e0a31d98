package cli

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/statelist/internal/fixture"
	"github.com/yildizm/statelist/internal/metrics"
	"github.com/yildizm/statelist/internal/reconcile"
	"github.com/yildizm/statelist/internal/state"
	"github.com/yildizm/statelist/internal/ui"
)

var (
	demoAnimation string
	demoDuration  time.Duration
	demoDelay     time.Duration
	demoFailFirst bool
	demoNoBlink   bool
)

func newDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo list",
		Long: `Show a sample list with a blinking title and play with it.

The list starts as a loading row and animates into the sample sections once
they are "fetched". Shuffle, collapse, delete or reset rows to watch each
change animate; toggle interrupt to see every reload stop before its first
batch, and b to toggle the blinking title.

Examples:
  statelist demo
  statelist demo --animation right --duration 600ms
  statelist demo --fail-first`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}

	cmd.Flags().StringVar(&demoAnimation, "animation", "", "row animation (fade, right, left, top, bottom, none, middle, automatic)")
	cmd.Flags().DurationVar(&demoDuration, "duration", 0, "how long each batch is animated (default from config)")
	cmd.Flags().DurationVar(&demoDelay, "delay", 800*time.Millisecond, "simulated load time of the sample list")
	cmd.Flags().BoolVar(&demoFailFirst, "fail-first", false, "fail the first load to show the error row")
	cmd.Flags().BoolVar(&demoNoBlink, "no-blink", false, "do not blink the title")

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	log, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := demoOptions()
	if err != nil {
		return err
	}
	opts.Logger = log

	log.Info("starting demo: %s", describeOptions(opts))
	return ui.Run(opts)
}

func demoOptions() (ui.Options, error) {
	opts := newUIOptions("statelist demo", sampleLoader(demoDelay, demoFailFirst))

	if demoAnimation != "" {
		a, err := reconcile.ParseRowAnimation(demoAnimation)
		if err != nil {
			return ui.Options{}, err
		}
		opts.RowAnimation = a
	}
	if demoDuration > 0 {
		opts.AnimationDuration = demoDuration
	}
	if demoNoBlink {
		opts.Blink = false
	}
	return opts, nil
}

// sampleLoader returns the sample list after delay. With failFirst the first
// call fails so the error row and its retry can be seen.
func sampleLoader(delay time.Duration, failFirst bool) func() (state.ViewState, error) {
	var calls atomic.Int64
	return func() (state.ViewState, error) {
		if delay > 0 {
			time.Sleep(delay)
		}
		if failFirst && calls.Add(1) == 1 {
			return nil, errors.New("network unreachable (select to retry)")
		}
		return fixture.Sample().ViewState(), nil
	}
}

// newUIOptions builds app options from the effective configuration
func newUIOptions(title string, initial func() (state.ViewState, error)) ui.Options {
	return ui.Options{
		Title:             title,
		BlinkText:         cfg.Blink.Text,
		Blink:             cfg.Blink.Enabled,
		BlinkInterval:     cfg.Blink.Interval,
		AnimationDuration: cfg.Table.AnimationDuration,
		RowAnimation:      cfg.Animation(),
		ShouldInterrupt:   cfg.Table.ShouldInterrupt,
		PageSize:          cfg.Table.PageSize,
		Initial:           initial,
		Stats:             metrics.NewReloadStats(),
	}
}

func describeOptions(opts ui.Options) string {
	return fmt.Sprintf("animation=%s duration=%s interrupt=%v blink=%v",
		opts.RowAnimation, opts.AnimationDuration, opts.ShouldInterrupt, opts.Blink)
}
