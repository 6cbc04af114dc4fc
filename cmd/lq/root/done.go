package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

func newDoneCmd() *cobra.Command {
	var date string
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <habit-id>",
		Short: "Mark a habit completed for today (or --date)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("habit id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.ToggleCompletion(ctx, id, date, !undo)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if undo {
				fmt.Fprintln(out, ui.Muted.Render("Unchecked. Rewards already granted stay on the ledger."))
				return nil
			}

			fmt.Fprintf(out, "%s +%s XP, +%s gold\n",
				ui.IconDone,
				ui.Good.Render(strconv.Itoa(res.XPGained)),
				ui.Gold.Render(strconv.Itoa(res.GoldGained)))
			if res.LeveledUp {
				fmt.Fprintf(out, "%s %s You are now level %d!\n", ui.IconSparkle, ui.BadgeLevelUp, res.NewLevel)
			}
			if res.UnlockedAchievement != nil {
				a := res.UnlockedAchievement
				fmt.Fprintf(out, "%s Achievement unlocked: %s — %s\n", ui.IconTrophy, ui.Title.Render(a.Title), ui.Muted.Render(a.Description))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Civil day to log (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&undo, "undo", false, "Uncheck instead of check")

	return cmd
}
