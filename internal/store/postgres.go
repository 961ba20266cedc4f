package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/benvon/replan/internal/database"
	"github.com/benvon/replan/internal/models"
)

// PostgresStore adapts the database repositories to the Store contract
type PostgresStore struct {
	db       *database.DB
	profiles *database.ProfileRepository
	plans    *database.PlanRepository
}

// NewPostgresStore creates a store over an open database
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{
		db:       db,
		profiles: database.NewProfileRepository(db),
		plans:    database.NewPlanRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	return s.profiles.Upsert(ctx, userID, profile)
}

func (s *PostgresStore) DeleteProfile(ctx context.Context, userID string) error {
	return s.profiles.Delete(ctx, userID)
}

func (s *PostgresStore) LoadPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	p, err := s.plans.Get(ctx, userID, date)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *PostgresStore) SavePlan(ctx context.Context, userID, date string, plan *models.DailyPlan) error {
	return s.plans.Upsert(ctx, userID, date, plan)
}

func (s *PostgresStore) ListPlans(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	return s.plans.ListRange(ctx, userID, from, to)
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}
