package store

import (
	"context"
	"errors"

	"github.com/benvon/replan/internal/models"
	"go.uber.org/zap"
)

// Fallback serves from a remote primary store and degrades to a local store
// when the primary fails. ErrNotFound from the primary is an answer, not a failure.
type Fallback struct {
	primary Store
	local   Store
	logger  *zap.Logger
}

// NewFallback combines a primary store with a local fallback
func NewFallback(primary, local Store, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{primary: primary, local: local, logger: logger}
}

func (f *Fallback) degraded(op string, err error) {
	f.logger.Warn("store_primary_failed_using_local",
		zap.String("operation", op),
		zap.Error(err),
	)
}

func usable(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound)
}

func (f *Fallback) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := f.primary.LoadProfile(ctx, userID)
	if usable(err) {
		return p, err
	}
	f.degraded("load_profile", err)
	return f.local.LoadProfile(ctx, userID)
}

func (f *Fallback) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	err := f.primary.SaveProfile(ctx, userID, profile)
	if err == nil {
		return nil
	}
	f.degraded("save_profile", err)
	return f.local.SaveProfile(ctx, userID, profile)
}

func (f *Fallback) DeleteProfile(ctx context.Context, userID string) error {
	localErr := f.local.DeleteProfile(ctx, userID)
	if err := f.primary.DeleteProfile(ctx, userID); err != nil {
		f.degraded("delete_profile", err)
		return localErr
	}
	return nil
}

func (f *Fallback) LoadPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	p, err := f.primary.LoadPlan(ctx, userID, date)
	if usable(err) {
		return p, err
	}
	f.degraded("load_plan", err)
	return f.local.LoadPlan(ctx, userID, date)
}

func (f *Fallback) SavePlan(ctx context.Context, userID, date string, plan *models.DailyPlan) error {
	err := f.primary.SavePlan(ctx, userID, date, plan)
	if err == nil {
		return nil
	}
	f.degraded("save_plan", err)
	return f.local.SavePlan(ctx, userID, date, plan)
}

func (f *Fallback) ListPlans(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	plans, err := f.primary.ListPlans(ctx, userID, from, to)
	if err == nil {
		return plans, nil
	}
	f.degraded("list_plans", err)
	return f.local.ListPlans(ctx, userID, from, to)
}

// Ping reports the primary health; a failing primary is degraded, not down
func (f *Fallback) Ping(ctx context.Context) error {
	if p, ok := f.primary.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
