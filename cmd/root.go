package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "wordcoach",
	Short:         "Vocabulary drill coach",
	Long:          "wordcoach drills vocabulary pairs with age weighted selection, streak scoring and daily goals.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "Storage driver: sqlite3, postgres or file (overrides config)")
	rootCmd.PersistentFlags().String("dsn", "", "Database DSN or state file path (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mistakesCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rolloverCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
