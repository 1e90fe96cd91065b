package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/autoclock/internal/model"
	"github.com/Tiliavir/autoclock/internal/report"
	"github.com/Tiliavir/autoclock/internal/timecalc"
)

var (
	reportFrom   string
	reportTo     string
	reportWeek   bool
	reportSubmit bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the entries the commits of a date range would produce",
	Long: `Computes an entry for every commit in the date range, fitted around the
entries already on Clockify. Nothing is submitted unless --submit is given.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "First day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Last day, YYYY-MM-DD (default today)")
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report the current week")
	reportCmd.Flags().BoolVar(&reportSubmit, "submit", false, "Also submit the entries to Clockify")
	reportCmd.Flags().StringVar(&reportFormat, "format", string(report.FormatText), "Output format: "+strings.Join(report.Formats(), ", "))
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return usage(err)
	}

	a, err := newApp(cmd.Context(), true, true)
	if err != nil {
		return err
	}
	defer a.close()

	from, to, err := reportRange(time.Now().In(a.loc), reportFrom, reportTo, reportWeek)
	if err != nil {
		return usage(err)
	}

	log, err := a.scheduler(false).Batch(cmd.Context(), from, to, reportSubmit)
	if err != nil {
		return err
	}
	if err := report.Render(cmd.OutOrStdout(), log, format); err != nil {
		return err
	}
	if reportSubmit {
		a.log.Success("Submitted %d %s.", log.Len(), plural(log.Len(), "entry", "entries"))
	}
	return nil
}

// reportRange resolves --week, --from and --to into a day range.
func reportRange(now time.Time, fromFlag, toFlag string, week bool) (time.Time, time.Time, error) {
	loc := now.Location()
	if week {
		if fromFlag != "" || toFlag != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--week cannot be combined with --from or --to")
		}
		from, to := timecalc.WeekRange(now)
		return from, to, nil
	}
	if fromFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("no start date provided, use --from YYYY-MM-DD or --week")
	}

	from, err := time.ParseInLocation(model.DayLayout, fromFlag, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	to := timecalc.StartOfDay(now)
	if toFlag != "" {
		if to, err = time.ParseInLocation(model.DayLayout, toFlag, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to.Format(model.DayLayout), from.Format(model.DayLayout))
	}
	return from, to, nil
}
