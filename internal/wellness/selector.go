package wellness

import (
	"time"

	"github.com/benvon/replan/internal/models"
)

// Selector resolves tips against an injectable clock
type Selector struct {
	now func() time.Time
}

// NewSelector creates a Selector; a nil clock uses time.Now
func NewSelector(now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{now: now}
}

// Assign sets today's tip on every block
func (s *Selector) Assign(blocks []models.TimeBlock) []models.TimeBlock {
	return Assign(blocks, s.now())
}

// Summary returns today's condition and menstrual tips
func (s *Selector) Summary(condition models.Condition, menstrual *models.MenstrualCondition) DailySummary {
	return Summary(condition, menstrual, s.now())
}
