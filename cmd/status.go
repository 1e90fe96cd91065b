package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/autoclock/internal/model"
	"github.com/Tiliavir/autoclock/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer or the last entry of today",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true, true)
	if err != nil {
		return err
	}
	defer a.close()

	now := time.Now().In(a.loc)
	from, to := timecalc.StartOfDay(now), timecalc.EndOfDay(now)

	recent, err := a.client.MostRecentEntry(cmd.Context(), from)
	if err != nil {
		return err
	}
	today, err := a.client.EntriesInRange(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), now, recent, today)
	return nil
}

func printStatus(w io.Writer, now time.Time, recent *model.RemoteEntry, today []model.RemoteEntry) {
	switch {
	case recent == nil:
		fmt.Fprintln(w, "No entries today.")
	case recent.Running():
		fmt.Fprintln(w, "Running:")
		fmt.Fprintf(w, "  Description: %s\n", recent.Description)
		fmt.Fprintf(w, "  Since: %s\n", recent.Start.In(now.Location()).Format("15:04"))
		fmt.Fprintf(w, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(now.Sub(recent.Start)))
	default:
		fmt.Fprintln(w, "No active timer.")
		fmt.Fprintf(w, "  Last: %s (%s, ended %s)\n",
			recent.Description,
			formatElapsed(int64(recent.End.Sub(recent.Start).Seconds())),
			recent.End.In(now.Location()).Format("15:04"))
	}

	var total time.Duration
	for _, e := range today {
		if e.End != nil && timecalc.SameDay(e.Start.In(now.Location()), now) {
			total += e.End.Sub(e.Start)
		}
	}
	fmt.Fprintf(w, "Today: %s logged.\n", timecalc.FormatDuration(total))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
