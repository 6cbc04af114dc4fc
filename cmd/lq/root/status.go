package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, gold and stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := svc.Status(ctx)
			if err != nil {
				return err
			}
			l := st.Ledger

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSword, "Hunter Status"))
			fmt.Fprintln(out, ui.LabelValue("Rank", ui.Title.Render(st.Rank)))
			fmt.Fprintln(out, ui.LabelValue("Level", l.Level))
			fmt.Fprintf(out, "%s %s %d/%d XP\n", ui.Key.Render("Progress:"), ui.ProgressBar(l.CurrentXP, st.XPForNext, 30), l.CurrentXP, st.XPForNext)
			fmt.Fprintln(out, ui.LabelValue("Total XP", l.TotalXP))
			fmt.Fprintf(out, "%s %s %d %s\n", ui.Key.Render("Gold:"), ui.IconGold, l.CurrentGold, ui.Muted.Render(fmt.Sprintf("(lifetime %d)", l.LifetimeGold)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			fmt.Fprintf(out, "- 💪 STR: %d\n", l.Strength)
			fmt.Fprintf(out, "- 🧠 INT: %d\n", l.Intelligence)
			fmt.Fprintf(out, "- ❤️ VIT: %d\n", l.Vitality)
			fmt.Fprintf(out, "- 🏃 AGI: %d\n", l.Agility)
			fmt.Fprintf(out, "- 👁️ SEN: %d\n", l.Sense)
			fmt.Fprintf(out, "- 🔥 WIL: %d\n", l.Willpower)

			if l.LastLevelUp != nil {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.Muted.Render("Last level up: "+l.LastLevelUp.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
	return cmd
}
