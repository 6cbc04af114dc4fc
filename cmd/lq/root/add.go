package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/engine"
	"levelquest/internal/ui"
)

func newAddCmd() *cobra.Command {
	var description string
	var category string
	var priority bool
	var frequency string
	var days []int
	var interval int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			h, err := svc.CreateHabit(ctx, engine.CreateHabitInput{
				Name:           args[0],
				Description:    description,
				Category:       category,
				Priority:       priority,
				Frequency:      frequency,
				FrequencyDays:  days,
				CustomInterval: interval,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconLoop, "Habit created"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("ID", h.ID))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Name", h.Name))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Category", h.Category))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Difficulty", h.Difficulty))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("XP per completion", h.XPReward))
			if h.DifficultyNote != nil {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(*h.DifficultyNote))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "personal", "Category (fitness|health|learning|mindfulness|productivity|personal|work|finance|social|creative)")
	cmd.Flags().BoolVarP(&priority, "priority", "p", false, "Pin to the top of lists")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "Frequency (daily|weekdays|weekends|specific|custom)")
	cmd.Flags().IntSliceVar(&days, "days", nil, "Weekdays for specific frequency (0=Sun..6=Sat)")
	cmd.Flags().IntVar(&interval, "interval", 0, "Interval in days for custom frequency")

	return cmd
}
