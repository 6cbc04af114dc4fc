package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"levelquest/internal/engine"
	"levelquest/internal/storage"
	"levelquest/internal/ui"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(
		newGoalAddCmd(),
		newGoalListCmd(),
		newGoalProgressCmd(),
		newGoalStepCmd(),
	)
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	var description string
	var category string
	var deadline string
	var priority bool
	var steps []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			g, err := svc.CreateGoal(ctx, engine.CreateGoalInput{
				Title:       args[0],
				Description: description,
				Category:    category,
				Deadline:    deadline,
				Priority:    priority,
				Steps:       steps,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Goal created"))
			fmt.Fprintln(out, ui.LabelValue("ID", g.ID))
			fmt.Fprintln(out, ui.LabelValue("Title", g.Title))
			fmt.Fprintln(out, ui.LabelValue("Reward on completion", fmt.Sprintf("%d XP", g.XPReward)))
			for _, st := range g.Steps {
				fmt.Fprintf(out, "  %s %s %s\n", ui.IconOpen, st.Title, ui.Muted.Render(st.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "personal", "Category")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&priority, "priority", "p", false, "Pin to the top of lists")
	cmd.Flags().StringSliceVarP(&steps, "step", "s", nil, "Initial steps (repeatable)")

	return cmd
}

func newGoalListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			goals, err := svc.ListGoals(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Goals"))
			if len(goals) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none — add one with `lq goal add`)"))
				return nil
			}
			for _, g := range goals {
				printGoal(out, g)
			}
			return nil
		},
	}
	return cmd
}

func printGoal(out io.Writer, g storage.Goal) {
	status := ui.ProgressBar(g.Progress, 100, 20) + fmt.Sprintf(" %3d%%", g.Progress)
	if g.Completed {
		status = ui.Good.Render("completed")
	}
	line := fmt.Sprintf("%3d  %s %s", g.ID, g.Title, status)
	if g.Deadline != nil {
		line += " " + ui.Muted.Render("due "+*g.Deadline)
	}
	fmt.Fprintln(out, line)
	for _, st := range g.Steps {
		check := ui.IconOpen
		if st.Completed {
			check = ui.IconDone
		}
		fmt.Fprintf(out, "     %s %s %s\n", check, st.Title, ui.Muted.Render(st.ID))
	}
}

func newGoalProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress <goal-id> <0-100>",
		Short: "Set goal progress; 100 completes the goal and pays its XP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("goal id and progress are required")
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

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.New("goal id must be an integer")
			}
			progress, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New("progress must be an integer")
			}

			res, err := svc.UpdateGoal(ctx, id, engine.UpdateGoalInput{Progress: &progress})
			if err != nil {
				return err
			}
			printGoalResult(cmd, res)
			return nil
		},
	}
	return cmd
}

func newGoalStepCmd() *cobra.Command {
	var uncheck bool

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage goal steps",
	}

	add := &cobra.Command{
		Use:   "add <goal-id> <title>",
		Short: "Add a step to a goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("goal id and title are required")
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

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.New("goal id must be an integer")
			}
			res, err := svc.AddGoalStep(ctx, id, args[1], "")
			if err != nil {
				return err
			}
			printGoalResult(cmd, res)
			return nil
		},
	}

	done := &cobra.Command{
		Use:   "done <goal-id> <step-id>",
		Short: "Check (or uncheck) a step",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("goal id and step id are required")
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

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.New("goal id must be an integer")
			}
			res, err := svc.ToggleGoalStep(ctx, id, args[1], !uncheck)
			if err != nil {
				return err
			}
			printGoalResult(cmd, res)
			return nil
		},
	}
	done.Flags().BoolVar(&uncheck, "undo", false, "Uncheck instead of check")

	cmd.AddCommand(add, done)
	return cmd
}

func printGoalResult(cmd *cobra.Command, res *engine.GoalUpdateResult) {
	out := cmd.OutOrStdout()
	printGoal(out, *res.Goal)
	if res.XPAwarded > 0 {
		fmt.Fprintf(out, "%s Goal complete! +%s XP\n", ui.IconSparkle, ui.Good.Render(strconv.Itoa(res.XPAwarded)))
	}
	if res.LeveledUp {
		fmt.Fprintf(out, "%s %s You are now level %d!\n", ui.IconSparkle, ui.BadgeLevelUp, res.NewLevel)
	}
	if res.UnlockedAchievement != nil {
		a := res.UnlockedAchievement
		fmt.Fprintf(out, "%s Achievement unlocked: %s — %s\n", ui.IconTrophy, ui.Title.Render(a.Title), ui.Muted.Render(a.Description))
	}
}
