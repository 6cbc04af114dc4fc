package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"levelquest/internal/ui"
)

const Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "lq",
	Short:         "LevelQuest — RPG-flavored habit and goal tracker",
	Long:          "LevelQuest turns habits and goals into an RPG progression: XP, levels, gold, stats and achievements, all stored locally.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to config file")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoneCmd(),
		newListCmd(),
		newGoalCmd(),
		newStatusCmd(),
		newAnalyticsCmd(),
		newAchievementsCmd(),
		newShopCmd(),
		newBoardCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.levelquest.yaml"
}
