package schedule

import (
	"testing"

	"github.com/benvon/replan/internal/models"
)

func TestNewPlan(t *testing.T) {
	t.Parallel()

	p := officeProfile()
	p.Exercise = models.Exercise{
		Active: true,
		Days:   []models.Weekday{models.Monday},
		Time:   "18:30",
		Types:  []string{"yoga"},
	}

	tests := []struct {
		name         string
		date         string
		wantExercise string
		wantErr      bool
	}{
		{name: "monday carries exercise type", date: "2026-10-19", wantExercise: "yoga"},
		{name: "tuesday has no exercise", date: "2026-10-20"},
		{name: "malformed date", date: "2026/10/19", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, err := NewPlan(p, tt.date)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for malformed date")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if plan.Date != tt.date || plan.Condition != models.ConditionNormal {
				t.Errorf("Unexpected plan header: %+v", plan)
			}
			if plan.TodayExerciseType != tt.wantExercise {
				t.Errorf("TodayExerciseType = %q, want %q", plan.TodayExerciseType, tt.wantExercise)
			}
			if len(plan.TimeBlocks) == 0 {
				t.Error("Expected generated blocks")
			}
			assertSortedUnique(t, plan.TimeBlocks)
		})
	}
}

func TestNewPlan_EmptyProfile(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan(&models.UserProfile{}, "2026-10-19")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.TimeBlocks == nil {
		t.Error("Expected non-nil block slice")
	}
}

func TestNewPlan_MenstrualTracking(t *testing.T) {
	t.Parallel()

	track := true
	p := officeProfile()
	p.Gender = models.GenderFemale
	p.TrackMenstrual = &track

	plan, err := NewPlan(p, "2026-10-19")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.MenstrualCondition == nil || *plan.MenstrualCondition != models.MenstrualNormal {
		t.Errorf("Expected normal phase, got %v", plan.MenstrualCondition)
	}

	p.Gender = models.GenderOther
	plan, err = NewPlan(p, "2026-10-19")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.MenstrualCondition != nil {
		t.Error("Expected no menstrual phase when the option is hidden")
	}
}
