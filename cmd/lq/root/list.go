package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with today's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habits, err := svc.ListHabits(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLoop, "Habits — "+svc.Today()))
			if len(habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none — add one with `lq add`)"))
				return nil
			}
			for _, h := range habits {
				if !all && !h.DueToday && !h.CompletedToday {
					continue
				}
				check := ui.IconOpen
				if h.CompletedToday {
					check = ui.IconDone
				}
				line := fmt.Sprintf("%s %3d  %s %s", check, h.ID, h.Name, ui.Muted.Render("["+h.Category+"]"))
				if h.Priority {
					line += " " + ui.Warn.Render("!")
				}
				if h.Streak > 1 {
					line += fmt.Sprintf(" %s%d", ui.IconFlame, h.Streak)
				}
				if !h.DueToday {
					line += " " + ui.Muted.Render("(not due)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include habits not due today")

	return cmd
}
