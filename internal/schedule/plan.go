package schedule

import (
	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
)

// NewPlan builds the unsaved plan for date from the profile template.
// The day starts in normal condition with empty notes; profiles tracking the
// menstrual cycle also start in the normal phase.
func NewPlan(profile *models.UserProfile, date string) (*models.DailyPlan, error) {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	blocks := Generate(profile, d.Weekday())
	if blocks == nil {
		blocks = []models.TimeBlock{}
	}
	plan := &models.DailyPlan{
		Date:       date,
		Condition:  models.ConditionNormal,
		TimeBlocks: blocks,
	}
	if profile != nil && profile.ShowsMenstrualOption() {
		phase := models.MenstrualNormal
		plan.MenstrualCondition = &phase
	}
	for _, b := range blocks {
		if b.BlockType == models.BlockExercise && b.ExerciseType != "" {
			plan.TodayExerciseType = b.ExerciseType
			break
		}
	}
	return plan, nil
}
