package schedule

import (
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
)

// Generator generates day templates relative to a clock
type Generator struct {
	now func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithClock overrides the clock used to resolve "today"
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator using the local wall clock by default
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Today generates blocks for the current day
func (g *Generator) Today(profile *models.UserProfile) []models.TimeBlock {
	return Generate(profile, g.now().Weekday())
}

// TodayDate returns the current plan date
func (g *Generator) TodayDate() string {
	return timeutil.FormatDate(g.now())
}

// ForDate generates blocks for a YYYY-MM-DD date
func (g *Generator) ForDate(profile *models.UserProfile, date string) ([]models.TimeBlock, error) {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return Generate(profile, d.Weekday()), nil
}
