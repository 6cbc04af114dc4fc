package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "List achievements; --check evaluates pending unlocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			if check {
				unlocked, err := svc.CheckProgressAchievements(ctx)
				if err != nil {
					return err
				}
				for _, a := range unlocked {
					fmt.Fprintf(out, "%s Unlocked: %s %s\n", ui.IconTrophy, ui.Title.Render(a.Title), ui.Muted.Render(a.Description))
				}
				if len(unlocked) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("Nothing new."))
				}
				return nil
			}

			list, err := svc.ListAchievements(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			for _, a := range list {
				mark := ui.IconOpen
				title := ui.Muted.Render(a.Title)
				if a.UnlockedAt != nil {
					mark = ui.IconDone
					title = ui.Title.Render(a.Title)
				}
				fmt.Fprintf(out, "%s %s %s %s\n", mark, title, ui.Muted.Render("["+a.Tier+"]"), a.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Evaluate streak/gold/completion triggers now")

	return cmd
}
