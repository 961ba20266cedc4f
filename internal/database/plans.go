package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/replan/internal/models"
)

const planDateLayout = "2006-01-02"

// PlanRepository handles daily plan database operations
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Get retrieves the plan of a user for one date
func (r *PlanRepository) Get(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	var planJSON []byte
	query := `
		SELECT plan
		FROM daily_plans
		WHERE user_id = $1 AND plan_date = $2
	`

	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&planJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	plan := &models.DailyPlan{}
	if err := json.Unmarshal(planJSON, plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return plan, nil
}

// Upsert replaces the whole plan record for (user, date)
func (r *PlanRepository) Upsert(ctx context.Context, userID, date string, plan *models.DailyPlan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	query := `
		INSERT INTO daily_plans (user_id, plan_date, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, plan_date) DO UPDATE
		SET plan = EXCLUDED.plan, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, date, planJSON, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert plan: %w", err)
	}
	return nil
}

// ListRange returns the plans of a user between from and to inclusive, oldest first
func (r *PlanRepository) ListRange(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	query := `
		SELECT plan_date, plan
		FROM daily_plans
		WHERE user_id = $1 AND plan_date >= $2 AND plan_date <= $3
		ORDER BY plan_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	plans := make([]models.PlanSummary, 0)
	for rows.Next() {
		var (
			planDate time.Time
			planJSON []byte
		)
		if err := rows.Scan(&planDate, &planJSON); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plan := &models.DailyPlan{}
		if err := json.Unmarshal(planJSON, plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
		}
		plans = append(plans, models.PlanSummary{Date: planDate.Format(planDateLayout), Plan: plan})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}
