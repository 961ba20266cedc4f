// Package store persists user profiles and daily plans behind a key-value facade.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/telemetry"
	"github.com/benvon/replan/internal/timeutil"
)

var (
	// ErrNotFound is returned when no record exists for the key
	ErrNotFound = errors.New("not found")
	// ErrInvalidDate is returned for plan dates that are not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidUser is returned for an empty user id
	ErrInvalidUser = errors.New("invalid user id")
)

// Store is the profile and plan persistence contract shared by every backend
type Store interface {
	LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
	LoadPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error)
	SavePlan(ctx context.Context, userID, date string, plan *models.DailyPlan) error
	// ListPlans returns plans with from <= date <= to in ascending date order
	ListPlans(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error)
}

// Pinger is implemented by backends that can report their health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Facade validates keys, traces calls and delegates to a backend
type Facade struct {
	backend Store
	name    string
	closers []io.Closer
}

// NewFacade wraps backend. Closers are closed by Close in order.
func NewFacade(name string, backend Store, closers ...io.Closer) *Facade {
	return &Facade{backend: backend, name: name, closers: closers}
}

// Backend returns the configured backend name
func (f *Facade) Backend() string {
	return f.name
}

// Ping checks the backend when it supports health checks
func (f *Facade) Ping(ctx context.Context) error {
	if p, ok := f.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases backend resources
func (f *Facade) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Facade) LoadProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.LoadProfile", "store.backend", f.name)
	defer span.End()
	p, err := f.backend.LoadProfile(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		telemetry.RecordError(span, err)
	}
	return p, err
}

func (f *Facade) SaveProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.SaveProfile", "store.backend", f.name)
	defer span.End()
	return telemetry.RecordError(span, f.backend.SaveProfile(ctx, userID, profile))
}

func (f *Facade) DeleteProfile(ctx context.Context, userID string) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.DeleteProfile", "store.backend", f.name)
	defer span.End()
	return telemetry.RecordError(span, f.backend.DeleteProfile(ctx, userID))
}

func (f *Facade) LoadPlan(ctx context.Context, userID, date string) (*models.DailyPlan, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.LoadPlan", "store.backend", f.name, "plan.date", date)
	defer span.End()
	p, err := f.backend.LoadPlan(ctx, userID, date)
	if err != nil && !errors.Is(err, ErrNotFound) {
		telemetry.RecordError(span, err)
	}
	return p, err
}

func (f *Facade) SavePlan(ctx context.Context, userID, date string, plan *models.DailyPlan) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	if err := checkDate(date); err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan is required")
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.SavePlan", "store.backend", f.name, "plan.date", date)
	defer span.End()
	return telemetry.RecordError(span, f.backend.SavePlan(ctx, userID, date, plan))
}

func (f *Facade) ListPlans(ctx context.Context, userID, from, to string) ([]models.PlanSummary, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if err := checkDate(from); err != nil {
		return nil, err
	}
	if err := checkDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, fmt.Errorf("%w: range start %s is after end %s", ErrInvalidDate, from, to)
	}
	ctx, span := telemetry.StartSpan(ctx, "store", "store.ListPlans", "store.backend", f.name, "plan.from", from, "plan.to", to)
	defer span.End()
	plans, err := f.backend.ListPlans(ctx, userID, from, to)
	return plans, telemetry.RecordError(span, err)
}

func checkUser(userID string) error {
	if userID == "" {
		return ErrInvalidUser
	}
	return nil
}

func checkDate(date string) error {
	if _, err := timeutil.ParseDate(date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
