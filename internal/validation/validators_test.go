package validation

import (
	"errors"
	"testing"

	"github.com/benvon/replan/internal/models"
)

func intPtr(v int) *int { return &v }

func validProfile() *models.UserProfile {
	return &models.UserProfile{
		Gender: models.GenderFemale,
		Lifestyle: models.Lifestyle{
			Type:        models.LifestyleOffice,
			OfficeHours: &models.OfficeHours{Start: "09:00", End: "18:00", LunchTime: "12:00"},
		},
		Sleep: models.Sleep{WakeTime: "07:00", BedTime: "23:00"},
		Meals: models.Meals{Breakfast: models.Meal{Enabled: true, Time: "07:30"}},
		Exercise: models.Exercise{
			Active:      true,
			WeeklyCount: intPtr(2),
			Days:        []models.Weekday{models.Monday, models.Thursday},
			Time:        "18:30",
		},
	}
}

func TestValidateProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *models.UserProfile)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *models.UserProfile) {}},
		{name: "malformed wake time", mutate: func(p *models.UserProfile) { p.Sleep.WakeTime = "7:00" }, wantErr: true},
		{name: "hour out of range", mutate: func(p *models.UserProfile) { p.Sleep.BedTime = "24:00" }, wantErr: true},
		{name: "unknown lifestyle", mutate: func(p *models.UserProfile) { p.Lifestyle.Type = "astronaut" }, wantErr: true},
		{name: "office without hours", mutate: func(p *models.UserProfile) { p.Lifestyle.OfficeHours = nil }, wantErr: true},
		{name: "student without class hours", mutate: func(p *models.UserProfile) {
			p.Lifestyle = models.Lifestyle{Type: models.LifestyleStudent}
		}, wantErr: true},
		{name: "too many exercise days", mutate: func(p *models.UserProfile) {
			p.Exercise.Days = append(p.Exercise.Days, models.Saturday)
		}, wantErr: true},
		{name: "duplicate exercise days", mutate: func(p *models.UserProfile) {
			p.Exercise.Days = []models.Weekday{models.Monday, models.Monday}
		}, wantErr: true},
		{name: "weekly count above five", mutate: func(p *models.UserProfile) { p.Exercise.WeeklyCount = intPtr(6) }, wantErr: true},
		{name: "invalid weekday", mutate: func(p *models.UserProfile) { p.Exercise.Days = []models.Weekday{"funday"} }, wantErr: true},
		{name: "inactive exercise ignores days", mutate: func(p *models.UserProfile) {
			p.Exercise = models.Exercise{Days: []models.Weekday{models.Monday, models.Tuesday, models.Wednesday}, WeeklyCount: intPtr(1)}
		}},
		{name: "enabled break without time", mutate: func(p *models.UserProfile) {
			p.Breaks = &models.Breaks{Morning: &models.BreakSetting{Enabled: true, Duration: 15}}
		}, wantErr: true},
		{name: "disabled break without time", mutate: func(p *models.UserProfile) {
			p.Breaks = &models.Breaks{Morning: &models.BreakSetting{Duration: 15}}
		}},
		{name: "enabled meal without time", mutate: func(p *models.UserProfile) { p.Meals.Dinner = models.Meal{Enabled: true} }, wantErr: true},
		{name: "unknown shift type", mutate: func(p *models.UserProfile) {
			s := models.ShiftType("graveyard")
			p.Lifestyle = models.Lifestyle{Type: models.LifestyleShift, ShiftType: &s}
		}, wantErr: true},
		{name: "unknown work period", mutate: func(p *models.UserProfile) {
			p.Lifestyle = models.Lifestyle{Type: models.LifestyleFreelancer, PreferredWorkHours: []models.WorkHourPeriod{"dawn"}}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validProfile()
			tt.mutate(p)
			err := ValidateProfile(p)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProfile) {
					t.Errorf("Expected ErrInvalidProfile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateProfile_Nil(t *testing.T) {
	t.Parallel()

	if err := ValidateProfile(nil); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}
}

func TestValidatePlan(t *testing.T) {
	t.Parallel()

	valid := func() *models.DailyPlan {
		return &models.DailyPlan{
			Date:      "2026-10-19",
			Condition: models.ConditionNormal,
			TimeBlocks: []models.TimeBlock{
				{ID: "wake", StartTime: "07:00", EndTime: "07:30", BlockType: models.BlockSleep, IsFixed: true},
				{ID: "work-09:00", StartTime: "09:00", EndTime: "12:00", BlockType: models.BlockWork,
					Todos: []models.TodoItem{{ID: "t1", Text: "report", Priority: models.PriorityHigh}}},
			},
		}
	}

	if err := ValidatePlan(valid()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *models.DailyPlan)
	}{
		{name: "bad date", mutate: func(p *models.DailyPlan) { p.Date = "19/10/2026" }},
		{name: "bad condition", mutate: func(p *models.DailyPlan) { p.Condition = "meh" }},
		{name: "bad menstrual", mutate: func(p *models.DailyPlan) {
			m := models.MenstrualCondition("other")
			p.MenstrualCondition = &m
		}},
		{name: "bad block time", mutate: func(p *models.DailyPlan) { p.TimeBlocks[0].EndTime = "25:00" }},
		{name: "bad block type", mutate: func(p *models.DailyPlan) { p.TimeBlocks[0].BlockType = "nap" }},
		{name: "bad priority", mutate: func(p *models.DailyPlan) { p.TimeBlocks[1].Todos[0].Priority = "urgent" }},
		{name: "duplicate block id", mutate: func(p *models.DailyPlan) { p.TimeBlocks[1].ID = "wake" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid()
			tt.mutate(p)
			if err := ValidatePlan(p); !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("Expected ErrInvalidPlan, got %v", err)
			}
		})
	}
}

func TestValidateInputTodos(t *testing.T) {
	t.Parallel()

	if err := Validate.Struct(models.InputTodo{Text: "a", Duration: intPtr(30), Priority: models.PriorityLow}); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := Validate.Struct(models.InputTodo{Text: ""}); err == nil {
		t.Error("Expected error for empty text")
	}
	if err := Validate.Struct(models.InputTodo{Text: "a", Duration: intPtr(0)}); err == nil {
		t.Error("Expected error for zero duration")
	}
}

func TestValidateCondition(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"good", "normal", "bad"} {
		if err := ValidateCondition(c); err != nil {
			t.Errorf("Unexpected error for %s: %v", c, err)
		}
	}
	if err := ValidateCondition("great"); err == nil {
		t.Error("Expected error for unknown condition")
	}
	if err := ValidateMenstrualCondition("pms"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := ValidateMenstrualCondition("x"); err == nil {
		t.Error("Expected error for unknown menstrual condition")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "  hello  ", want: "hello"},
		{input: "line1\nline2\tend", want: "line1\nline2\tend"},
		{input: "bell\x07char", want: "bellchar"},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.input); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
