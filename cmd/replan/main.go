package main

import (
	"fmt"
	"os"

	"github.com/benvon/replan/cmd/replan/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:           "replan",
		Short:         "Daily schedule generator",
		Long:          "Generate daily time-block schedules from a lifestyle profile, place to-dos and inspect saved plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewGenerateCmd())
	rootCmd.AddCommand(commands.NewAssignCmd())
	rootCmd.AddCommand(commands.NewAlternativeCmd())
	rootCmd.AddCommand(commands.NewTipsCmd())
	rootCmd.AddCommand(commands.NewPlanCmd())
	rootCmd.AddCommand(commands.NewMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
