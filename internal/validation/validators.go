package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	// ErrInvalidProfile wraps every profile validation failure
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrInvalidPlan wraps every plan validation failure
	ErrInvalidPlan = errors.New("invalid plan")
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	validators := map[string]validator.Func{
		"hhmm":        validateHHMM,
		"weekday":     validateWeekday,
		"priority":    validatePriority,
		"condition":   validateCondition,
		"menstrual":   validateMenstrual,
		"lifestyle":   validateLifestyle,
		"shift_type":  validateShiftType,
		"work_period": validateWorkPeriod,
		"block_type":  validateBlockType,
	}
	for tag, fn := range validators {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}

	Validate.RegisterStructValidation(validateExercise, models.Exercise{})
	Validate.RegisterStructValidation(validateLifestyleFields, models.Lifestyle{})
	Validate.RegisterStructValidation(validateBreak, models.BreakSetting{})
	Validate.RegisterStructValidation(validateMeal, models.Meal{})
}

func validateHHMM(fl validator.FieldLevel) bool {
	return timeutil.IsValidTime(fl.Field().String())
}

func validateWeekday(fl validator.FieldLevel) bool {
	return models.Weekday(fl.Field().String()).Valid()
}

func validatePriority(fl validator.FieldLevel) bool {
	switch models.Priority(fl.Field().String()) {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	default:
		return false
	}
}

func validateCondition(fl validator.FieldLevel) bool {
	return models.Condition(fl.Field().String()).Valid()
}

func validateMenstrual(fl validator.FieldLevel) bool {
	switch models.MenstrualCondition(fl.Field().String()) {
	case models.MenstrualNormal, models.MenstrualPMS, models.MenstrualPeriod, models.MenstrualPost:
		return true
	default:
		return false
	}
}

func validateLifestyle(fl validator.FieldLevel) bool {
	switch models.LifestyleType(fl.Field().String()) {
	case models.LifestyleOffice, models.LifestyleOfficeFlex, models.LifestyleShift,
		models.LifestyleStudent, models.LifestyleFreelancer, models.LifestyleOther:
		return true
	default:
		return false
	}
}

func validateShiftType(fl validator.FieldLevel) bool {
	switch models.ShiftType(fl.Field().String()) {
	case models.ShiftDay, models.ShiftAfternoon, models.ShiftNight, models.ShiftRotating:
		return true
	default:
		return false
	}
}

func validateWorkPeriod(fl validator.FieldLevel) bool {
	switch models.WorkHourPeriod(fl.Field().String()) {
	case models.PeriodMorning, models.PeriodAfternoon, models.PeriodEvening, models.PeriodNight:
		return true
	default:
		return false
	}
}

func validateBlockType(fl validator.FieldLevel) bool {
	switch models.BlockType(fl.Field().String()) {
	case models.BlockWork, models.BlockMeal, models.BlockBreak, models.BlockCommute,
		models.BlockExercise, models.BlockSleep, models.BlockFree:
		return true
	default:
		return false
	}
}

// validateExercise enforces the days-per-week limit of an active exercise habit
func validateExercise(sl validator.StructLevel) {
	ex := sl.Current().Interface().(models.Exercise)
	if !ex.Active {
		return
	}
	if ex.Time == "" {
		sl.ReportError(ex.Time, "Time", "time", "required_when_active", "")
	}
	if ex.WeeklyCount != nil && len(ex.Days) > *ex.WeeklyCount {
		sl.ReportError(ex.Days, "Days", "days", "max_weekly_count", fmt.Sprintf("%d", *ex.WeeklyCount))
	}
	seen := make(map[models.Weekday]bool, len(ex.Days))
	for _, d := range ex.Days {
		if seen[d] {
			sl.ReportError(ex.Days, "Days", "days", "unique", "")
			return
		}
		seen[d] = true
	}
}

// validateLifestyleFields requires the fields each lifestyle type generates from
func validateLifestyleFields(sl validator.StructLevel) {
	ls := sl.Current().Interface().(models.Lifestyle)
	switch ls.Type {
	case models.LifestyleOffice, models.LifestyleOfficeFlex:
		if ls.OfficeHours == nil {
			sl.ReportError(ls.OfficeHours, "OfficeHours", "officeHours", "required_for_office", "")
		}
	case models.LifestyleStudent:
		if ls.ClassHours == nil {
			sl.ReportError(ls.ClassHours, "ClassHours", "classHours", "required_for_student", "")
		}
	}
}

func validateBreak(sl validator.StructLevel) {
	b := sl.Current().Interface().(models.BreakSetting)
	if b.Enabled && b.Time == "" {
		sl.ReportError(b.Time, "Time", "time", "required_when_enabled", "")
	}
}

func validateMeal(sl validator.StructLevel) {
	m := sl.Current().Interface().(models.Meal)
	if m.Enabled && m.Time == "" {
		sl.ReportError(m.Time, "Time", "time", "required_when_enabled", "")
	}
}

// ValidateProfile validates a profile and its cross-field invariants
func ValidateProfile(p *models.UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is required", ErrInvalidProfile)
	}
	if err := Validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, describe(err))
	}
	return nil
}

// ValidatePlan validates a plan snapshot before it is saved
func ValidatePlan(p *models.DailyPlan) error {
	if p == nil {
		return fmt.Errorf("%w: plan is required", ErrInvalidPlan)
	}
	if err := Validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPlan, describe(err))
	}
	ids := make(map[string]bool, len(p.TimeBlocks))
	for _, b := range p.TimeBlocks {
		if ids[b.ID] {
			return fmt.Errorf("%w: duplicate block id %q", ErrInvalidPlan, b.ID)
		}
		ids[b.ID] = true
	}
	return nil
}

// ValidateCondition validates a condition string value
func ValidateCondition(value string) error {
	if !models.Condition(value).Valid() {
		return fmt.Errorf("invalid condition: %s (must be 'good', 'normal', or 'bad')", value)
	}
	return nil
}

// ValidateMenstrualCondition validates a menstrual condition string value
func ValidateMenstrualCondition(value string) error {
	switch models.MenstrualCondition(value) {
	case models.MenstrualNormal, models.MenstrualPMS, models.MenstrualPeriod, models.MenstrualPost:
		return nil
	default:
		return fmt.Errorf("invalid menstrual condition: %s (must be 'normal', 'pms', 'period', or 'post')", value)
	}
}

// describe flattens validator errors into a single readable message
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
