package commands

import (
	"fmt"
	"io"

	"github.com/benvon/replan/internal/schedule"
	"github.com/benvon/replan/internal/wellness"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var profilePath, date, output string
	var tips bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a day's time blocks from a profile",
		Long:  "Generate the time blocks for a date from a YAML profile. Fixed blocks are marked with '*'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			date, day, err := resolveDate(date)
			if err != nil {
				return err
			}

			plan, err := schedule.NewPlan(profile, date)
			if err != nil {
				return err
			}
			if tips {
				plan.TimeBlocks = wellness.Assign(plan.TimeBlocks, day)
			}

			return writeOutput(cmd.OutOrStdout(), output, plan, func(w io.Writer) {
				fmt.Fprintf(w, "Plan for %s\n", plan.Date)
				printBlocks(w, plan.TimeBlocks)
			})
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Profile YAML file (required)")
	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&tips, "tips", false, "Attach the day's wellness tips")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}
