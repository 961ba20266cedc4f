package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/benvon/replan/internal/config"
	"github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewPlanCmd creates the plan command group
func NewPlanCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect saved plans in the configured store",
	}
	cmd.PersistentFlags().StringVar(&userID, "user", "local", "User id")

	cmd.AddCommand(newPlanShowCmd(&userID))
	cmd.AddCommand(newPlanListCmd(&userID))
	return cmd
}

func openStore(ctx context.Context) (*store.Facade, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewDevelopmentLogger(false)
	if err != nil {
		log = zap.NewNop()
	}
	s, err := store.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
		}
	}, nil
}

func newPlanShowCmd(userID *string) *cobra.Command {
	var date, output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved plan for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _, err := resolveDate(date)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			plan, err := s.LoadPlan(ctx, *userID, date)
			if err != nil {
				return fmt.Errorf("failed to load plan %s: %w", date, err)
			}
			return writeOutput(cmd.OutOrStdout(), output, plan, func(w io.Writer) {
				fmt.Fprintf(w, "Plan for %s (condition: %s)\n", plan.Date, plan.Condition)
				printBlocks(w, plan.TimeBlocks)
				if plan.Notes != "" {
					fmt.Fprintf(w, "\nNotes: %s\n", plan.Notes)
				}
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}

func newPlanListCmd(userID *string) *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" || to == "" {
				return fmt.Errorf("required flags: --from, --to")
			}
			ctx := cmd.Context()
			s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			plans, err := s.ListPlans(ctx, *userID, from, to)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, plans, func(w io.Writer) {
				if len(plans) == 0 {
					fmt.Fprintln(w, "No saved plans")
					return
				}
				for _, p := range plans {
					fmt.Fprintf(w, "%s  %-6s  %d blocks\n", p.Date, p.Plan.Condition, len(p.Plan.TimeBlocks))
				}
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "Last date YYYY-MM-DD (required)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}
