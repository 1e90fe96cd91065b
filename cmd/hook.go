package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/autoclock/internal/hooks"
	"github.com/Tiliavir/autoclock/internal/report"
)

var hookDryRun bool

var hookCmd = &cobra.Command{
	Use:   "hook <" + strings.Join(hooks.Supported(), "|") + "> [git hook args...]",
	Short: "Run from a git hook and log the commit",
	Long: `Run from a git hook. post-commit logs the commit just made, commit-msg
logs the commit about to be made and post-checkout only records the checkout.
A running timer is stopped before the entry is submitted.`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runHook,
}

func init() {
	hookCmd.Flags().BoolVar(&hookDryRun, "dry-run", false, "Print the entry without stopping timers or submitting")
}

func runHook(cmd *cobra.Command, args []string) error {
	name, err := hooks.Parse(args[0])
	if err != nil {
		return err
	}

	// Checkouts are only logged, so they work without credentials.
	remote := name != hooks.PostCheckout
	a, err := newApp(cmd.Context(), remote, remote)
	if err != nil {
		return err
	}
	defer a.close()

	var d *hooks.Dispatcher
	if remote {
		d = hooks.NewDispatcher(a.scheduler(!hookDryRun), a.log)
	} else {
		d = hooks.NewDispatcher(nil, a.log)
	}

	log, err := d.Run(cmd.Context(), string(name), args[1:])
	if err != nil {
		a.log.Error("%s hook failed: %v", name, err)
		return err
	}
	if log == nil {
		return nil
	}

	if err := report.Render(cmd.OutOrStdout(), log, report.FormatText); err != nil {
		return err
	}
	if hookDryRun {
		a.log.InfoToUser("Dry run: nothing was submitted.")
	} else {
		a.log.Success("Logged %d %s.", log.Len(), plural(log.Len(), "entry", "entries"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

