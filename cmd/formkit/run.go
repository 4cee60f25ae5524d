package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/report"
)

func runCmd(a *app) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in the form interactively",
		Long: `Prompt for every field, re-asking while a value is invalid, then submit.

The submission is simulated: it completes after --delay and the captured
values are printed as JSON.

Examples:
  formkit run
  formkit run --definition signup.yaml --delay 2s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, stop, err := a.newStore()
			if err != nil {
				return err
			}
			defer stop()

			out := cmd.OutOrStdout()
			reporter := report.Multi{report.NewDump(out), report.Log{Logger: a.logger}}
			ctrl := form.NewController(store, form.DelayedAction{Delay: delay}, form.WithReporter(reporter))

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			outcome, err := tui.New(tui.WithLogger(a.logger)).Run(ctx, ctrl)
			switch {
			case errors.Is(err, tui.ErrDeclined):
				fmt.Fprintln(out, "Nothing submitted.")
				return nil
			case err != nil:
				return err
			case outcome.Err != nil:
				return fmt.Errorf("submission %s: %w", outcome.ID, outcome.Err)
			}
			success(out, "Submitted %s in %s", outcome.ID, outcome.Finished.Sub(outcome.Started).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", form.DefaultDelay, "Simulated submission latency")

	return cmd
}
