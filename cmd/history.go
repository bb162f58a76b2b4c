package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/breakr/internal/adapters/tui"
	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/services"
)

var historyFilter string

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [YYYY-MM-DD]",
	Short: "Show focus records for a day",
	Long: `Show the focus records journaled on a day.

Without a date, pick one of the days that have records. Outside a
terminal, today is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		out := cmd.OutOrStdout()

		var date string
		if len(args) == 1 {
			date = args[0]
		} else {
			picked, err := pickHistoryDate(ctx, out)
			if err != nil {
				return err
			}
			if picked == "" {
				return nil
			}
			date = picked
		}

		day, err := app.history.Day(ctx, date, historyFilter)
		if err != nil {
			return err
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(day, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal history: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		printDayHistory(out, day)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyFilter, "filter", "f", "", "Only show records whose goal matches (fuzzy)")
}

// pickHistoryDate asks for one of the journaled days. An empty result means
// nothing was picked.
func pickHistoryDate(ctx context.Context, out io.Writer) (string, error) {
	if jsonOutput || !tui.IsInteractive() {
		return domain.DateKey(time.Now()), nil
	}

	dates, err := app.history.Dates(ctx)
	if err != nil {
		return "", err
	}
	if len(dates) == 0 {
		fmt.Fprintln(out, "No focus records yet.")
		return "", nil
	}

	items := make([]tui.PickerItem, 0, len(dates))
	for _, date := range dates {
		desc := ""
		if day, err := app.history.Day(ctx, date, ""); err == nil {
			desc = fmt.Sprintf("%s, %d min", pluralize(len(day.Records), "session"), day.TotalMinutes)
		}
		items = append(items, tui.PickerItem{Label: date, Desc: desc})
	}

	result := tui.RunPicker("Focus history:", items, "enter to open, esc to cancel")
	if result.Aborted {
		return "", nil
	}
	return dates[result.Index], nil
}

// printDayHistory writes the records of day in journal order.
func printDayHistory(out io.Writer, day *services.DayHistory) {
	if len(day.Records) == 0 {
		fmt.Fprintf(out, "No focus records for %s.\n", day.Date)
		return
	}

	fmt.Fprintf(out, "Focus records for %s\n\n", day.Date)
	for _, rec := range day.Records {
		fmt.Fprintf(out, "  %s\n", rec.FocusGoal)
		fmt.Fprintf(out, "    %s - %s  (%d min)\n",
			rec.StartTime.Format("15:04:05"), rec.EndTime.Format("15:04:05"), rec.DurationMinutes)
		if note := rec.Note(); note != "" {
			fmt.Fprintf(out, "    Note: %s\n", note)
		}
	}
	fmt.Fprintf(out, "\n  Total: %s, %d min\n", pluralize(len(day.Records), "session"), day.TotalMinutes)
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
