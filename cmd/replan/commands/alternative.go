package commands

import (
	"fmt"
	"io"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/planner"
	"github.com/benvon/replan/internal/schedule"
	"github.com/spf13/cobra"
)

// NewAlternativeCmd creates the alternative command
func NewAlternativeCmd() *cobra.Command {
	var profilePath, todosPath, blockID, date, condition, output string

	cmd := &cobra.Command{
		Use:   "alternative",
		Short: "Suggest a reduced to-do list for one block",
		Long:  "Put the to-dos from a YAML file into one block of the generated day and suggest what to keep for the given condition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if blockID == "" {
				return fmt.Errorf("--block is required")
			}
			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			todos, err := loadTodos(todosPath)
			if err != nil {
				return err
			}
			cond, err := parseCondition(condition)
			if err != nil {
				return err
			}
			date, _, err := resolveDate(date)
			if err != nil {
				return err
			}

			plan, err := schedule.NewPlan(profile, date)
			if err != nil {
				return err
			}
			blocks, err := planner.ApplyAlternative(plan.TimeBlocks, blockID, todos)
			if err != nil {
				return err
			}
			var block models.TimeBlock
			for _, b := range blocks {
				if b.ID == blockID {
					block = b
				}
			}

			alt := planner.SuggestAlternative(block, cond)
			return writeOutput(cmd.OutOrStdout(), output, alt, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s-%s, %d min available)\n", block.Label, block.StartTime, block.EndTime, planner.AvailableMinutes(block))
				fmt.Fprintln(w, alt.Suggestion)
				for _, t := range alt.ModifiedTodos {
					fmt.Fprintf(w, "  - %s (%dm, %s)\n", t.Text, *t.Duration, t.Priority)
				}
			})
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Profile YAML file (required)")
	cmd.Flags().StringVar(&todosPath, "todos", "", "To-do YAML file (required)")
	cmd.Flags().StringVar(&blockID, "block", "", "Block id (required)")
	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition: good, normal or bad")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}
