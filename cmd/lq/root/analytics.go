package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

func newAnalyticsCmd() *cobra.Command {
	var timeframe string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show completion analytics and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := svc.Analytics(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Analytics"))
			fmt.Fprintf(out, "%s %s%d %s\n", ui.Key.Render("Streak:"), ui.IconFlame, r.StreakData.CurrentStreak,
				ui.Muted.Render(fmt.Sprintf("(best %d, %d completions total)", r.StreakData.LongestStreak, r.StreakData.TotalCompletions)))
			fmt.Fprintln(out, ui.LabelValue("This week", r.WeeklyProgress+"%"))
			fmt.Fprintln(out, ui.LabelValue("Week over week", r.OverallGrowth))
			fmt.Fprintln(out, ui.LabelValue("7-day average", r.OverallCompletion+"%"))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Last 7 days"))
			for _, p := range r.DailyData {
				fmt.Fprintf(out, "  %-4s %s %3d%% %s\n", p.Name, ui.ProgressBar(p.Percentage, 100, 20), p.Percentage,
					ui.Muted.Render(fmt.Sprintf("%d/%d", p.Completions, p.Total)))
			}
			fmt.Fprintln(out, "")

			stats := r.HabitStatsByTimeframe.Monthly
			label := "30 days"
			switch timeframe {
			case "daily":
				stats, label = r.HabitStatsByTimeframe.Daily, "today"
			case "weekly":
				stats, label = r.HabitStatsByTimeframe.Weekly, "7 days"
			case "yearly":
				stats, label = r.HabitStatsByTimeframe.Yearly, "365 days"
			}
			fmt.Fprintln(out, ui.H2.Render("Habits ("+label+")"))
			if len(stats) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no active habits)"))
			}
			for _, hs := range stats {
				fmt.Fprintf(out, "  %-24s %3d%% %s\n", hs.Name, hs.CompletionRate, ui.TierText(hs.Tier, hs.TierLabel))
				if hs.Suggestion != "" {
					fmt.Fprintln(out, "    "+ui.Muted.Render(hs.Suggestion))
				}
			}

			if len(r.CategoryBreakdown) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render("Categories (30 days)"))
				for _, c := range r.CategoryBreakdown {
					fmt.Fprintf(out, "  %-16s %s %3d%% %s\n", c.Category, ui.ProgressBar(c.CompletionRate, 100, 16), c.CompletionRate,
						ui.Muted.Render(fmt.Sprintf("%d habits", c.Count)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "monthly", "Habit stats window (daily|weekly|monthly|yearly)")

	return cmd
}
