// Package schedule turns a lifestyle profile into the ordered time blocks of one day.
package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/google/uuid"
)

const (
	wakeMinutes      = 30
	sleepMinutes     = 30
	breakfastMinutes = 30
	mealMinutes      = 60
	selfStudyMinutes = 120

	defaultCommuteMinutes  = 30
	defaultExerciseMinutes = 60
	defaultLunchTime       = "12:00"
	defaultFreeTimeStart   = "20:00"
)

type shiftRange struct {
	start, end string
}

var shiftHours = map[models.ShiftType]shiftRange{
	models.ShiftDay:       {"06:00", "14:00"},
	models.ShiftAfternoon: {"14:00", "22:00"},
	models.ShiftNight:     {"22:00", "06:00"},
	models.ShiftRotating:  {"09:00", "18:00"},
}

var partMarks = []rune("①②③④⑤⑥⑦⑧⑨⑩")

// breakPoint is a configured break that may split a work segment
type breakPoint struct {
	time     string
	duration int
	label    string
	icon     string
}

// Generate builds the blocks for a day falling on weekday, sorted by start time
func Generate(profile *models.UserProfile, weekday time.Weekday) []models.TimeBlock {
	if profile == nil {
		return nil
	}

	wake, bed := sleepTimes(profile, weekday)
	breaks := collectBreaks(profile.Breaks)

	blocks := []models.TimeBlock{
		newBlock("wake", "Wake up", wake, timeutil.AddMinutes(wake, wakeMinutes), "🌅", true, models.BlockSleep),
	}

	if meal := profile.Meals.Breakfast; meal.Enabled && meal.Time != "" {
		blocks = append(blocks, newBlock("breakfast", "Breakfast", meal.Time,
			timeutil.AddMinutes(meal.Time, breakfastMinutes), "🍳", true, models.BlockMeal))
	}

	blocks = append(blocks, lifestyleBlocks(profile, breaks)...)

	if ExerciseDay(profile, weekday) && profile.Exercise.Time != "" {
		duration := defaultExerciseMinutes
		if profile.Exercise.Duration != nil {
			duration = *profile.Exercise.Duration
		}
		ex := newBlock("exercise", "Exercise", profile.Exercise.Time,
			timeutil.AddMinutes(profile.Exercise.Time, duration), "🏋️", false, models.BlockExercise)
		if len(profile.Exercise.Types) > 0 {
			ex.ExerciseType = profile.Exercise.Types[0]
		}
		blocks = append(blocks, ex)
	}

	freeStart := defaultFreeTimeStart
	if meal := profile.Meals.Dinner; meal.Enabled && meal.Time != "" {
		dinnerEnd := timeutil.AddMinutes(meal.Time, mealMinutes)
		blocks = append(blocks, newBlock("dinner", "Dinner", meal.Time, dinnerEnd, "🍽️", true, models.BlockMeal))
		freeStart = dinnerEnd
	}

	blocks = append(blocks,
		newBlock("evening_free", "Free time", freeStart, bed, "🌙", false, models.BlockFree),
		newBlock("sleep", "Sleep", bed, timeutil.AddMinutes(bed, sleepMinutes), "😴", true, models.BlockSleep),
	)

	slices.SortStableFunc(blocks, func(a, b models.TimeBlock) int {
		return timeutil.TimeToMinutes(a.StartTime) - timeutil.TimeToMinutes(b.StartTime)
	})
	return blocks
}

// ExerciseDay reports whether an exercise block belongs on weekday. An active
// habit with no days selected applies to every day.
func ExerciseDay(profile *models.UserProfile, weekday time.Weekday) bool {
	if profile == nil || !profile.Exercise.Active {
		return false
	}
	if len(profile.Exercise.Days) == 0 {
		return true
	}
	return slices.Contains(profile.Exercise.Days, models.WeekdayOf(weekday))
}

func sleepTimes(profile *models.UserProfile, weekday time.Weekday) (string, string) {
	wake, bed := profile.Sleep.WakeTime, profile.Sleep.BedTime
	if profile.Sleep.WeekendDifferent && timeutil.IsWeekend(weekday) {
		if profile.Sleep.WeekendWakeTime != "" {
			wake = profile.Sleep.WeekendWakeTime
		}
		if profile.Sleep.WeekendBedTime != "" {
			bed = profile.Sleep.WeekendBedTime
		}
	}
	return wake, bed
}

func collectBreaks(b *models.Breaks) []breakPoint {
	if b == nil {
		return nil
	}
	var points []breakPoint
	if b.Morning != nil && b.Morning.Enabled {
		points = append(points, breakPoint{time: b.Morning.Time, duration: b.Morning.Duration, label: "Morning break", icon: "☕"})
	}
	// one break per clock time; the morning break wins a tie
	if b.Afternoon != nil && b.Afternoon.Enabled &&
		!slices.ContainsFunc(points, func(p breakPoint) bool { return p.time == b.Afternoon.Time }) {
		points = append(points, breakPoint{time: b.Afternoon.Time, duration: b.Afternoon.Duration, label: "Afternoon break", icon: "🍵"})
	}
	return points
}

func lifestyleBlocks(profile *models.UserProfile, breaks []breakPoint) []models.TimeBlock {
	ls := profile.Lifestyle
	var blocks []models.TimeBlock

	switch ls.Type {
	case models.LifestyleOffice, models.LifestyleOfficeFlex:
		hours := ls.OfficeHours
		if hours == nil {
			return nil
		}
		commute := defaultCommuteMinutes
		if ls.CommuteMinutes != nil && *ls.CommuteMinutes > 0 {
			commute = *ls.CommuteMinutes
		}
		lunchEnd := timeutil.AddMinutes(hours.LunchTime, mealMinutes)

		blocks = append(blocks, newBlock("commute_to", "Commute to work",
			timeutil.AddMinutes(hours.Start, -commute), hours.Start, "🚗", true, models.BlockCommute))
		blocks = append(blocks, splitWorkBlock(hours.Start, hours.LunchTime, breaks, "Morning work", "💼")...)
		blocks = append(blocks, newBlock("lunch", "Lunch", hours.LunchTime, lunchEnd, "🍱", true, models.BlockMeal))
		blocks = append(blocks, splitWorkBlock(lunchEnd, hours.End, breaks, "Afternoon work", "💼")...)
		blocks = append(blocks, newBlock("commute_from", "Commute home",
			hours.End, timeutil.AddMinutes(hours.End, commute), "🚗", true, models.BlockCommute))

	case models.LifestyleShift:
		shift := models.ShiftDay
		if ls.ShiftType != nil {
			shift = *ls.ShiftType
		}
		r, ok := shiftHours[shift]
		if !ok {
			r = shiftHours[models.ShiftDay]
		}
		blocks = append(blocks, newBlock("shift_work", "Shift", r.start, r.end, "🏭", false, models.BlockWork))

	case models.LifestyleStudent:
		hours := ls.ClassHours
		if hours == nil {
			return nil
		}
		blocks = append(blocks, splitWorkBlock(hours.Start, earlier(hours.End, "12:00"), breaks, "Morning classes", "📚")...)
		blocks = append(blocks, lunchBlock(profile)...)
		blocks = append(blocks, splitWorkBlock(later(hours.Start, "13:00"), hours.End, breaks, "Afternoon classes", "📚")...)
		blocks = append(blocks, newBlock("self_study", "Self-study", hours.End,
			timeutil.AddMinutes(hours.End, selfStudyMinutes), "✍️", false, models.BlockWork))

	case models.LifestyleFreelancer:
		periods := ls.PreferredWorkHours
		if len(periods) == 0 {
			periods = []models.WorkHourPeriod{models.PeriodMorning, models.PeriodAfternoon}
		}
		if slices.Contains(periods, models.PeriodMorning) {
			blocks = append(blocks, splitWorkBlock("09:00", "12:00", breaks, "Morning work", "💻")...)
		}
		blocks = append(blocks, lunchBlock(profile)...)
		if slices.Contains(periods, models.PeriodAfternoon) {
			blocks = append(blocks, splitWorkBlock("13:00", "18:00", breaks, "Afternoon work", "💻")...)
		}
		if slices.Contains(periods, models.PeriodEvening) {
			blocks = append(blocks, newBlock("work_evening", "Evening work", "19:00", "23:00", "🌙", false, models.BlockWork))
		}
		if slices.Contains(periods, models.PeriodNight) {
			blocks = append(blocks, newBlock("work_night", "Late-night work", "23:00", "03:00", "🦉", false, models.BlockWork))
		}

	default:
		blocks = append(blocks, newBlock("morning_activity", "Morning activity", "09:00", "12:00", "☀️", false, models.BlockWork))
		blocks = append(blocks, lunchBlock(profile)...)
		blocks = append(blocks, newBlock("afternoon_activity", "Afternoon activity", "13:00", "18:00", "🌤️", false, models.BlockWork))
	}

	return blocks
}

// lunchBlock emits the lunch meal for lifestyles without fixed office hours
func lunchBlock(profile *models.UserProfile) []models.TimeBlock {
	if !profile.Meals.Lunch.Enabled {
		return nil
	}
	start := profile.Meals.Lunch.Time
	if start == "" {
		start = defaultLunchTime
	}
	return []models.TimeBlock{
		newBlock("lunch", "Lunch", start, timeutil.AddMinutes(start, mealMinutes), "🍱", true, models.BlockMeal),
	}
}

func earlier(a, b string) string {
	if timeutil.TimeToMinutes(a) <= timeutil.TimeToMinutes(b) {
		return a
	}
	return b
}

func later(a, b string) string {
	if timeutil.TimeToMinutes(a) >= timeutil.TimeToMinutes(b) {
		return a
	}
	return b
}

// splitWorkBlock cuts [start, end) at every break strictly inside it.
// An empty or inverted range yields no blocks.
func splitWorkBlock(start, end string, breaks []breakPoint, label, icon string) []models.TimeBlock {
	startMin, endMin := timeutil.TimeToMinutes(start), timeutil.TimeToMinutes(end)
	if startMin >= endMin {
		return nil
	}

	var inside []breakPoint
	for _, bp := range breaks {
		if m := timeutil.TimeToMinutes(bp.time); m > startMin && m < endMin {
			inside = append(inside, bp)
		}
	}
	if len(inside) == 0 {
		return []models.TimeBlock{
			newBlock("work-"+start, label, start, end, icon, false, models.BlockWork),
		}
	}
	slices.SortStableFunc(inside, func(a, b breakPoint) int {
		return timeutil.TimeToMinutes(a.time) - timeutil.TimeToMinutes(b.time)
	})

	var blocks []models.TimeBlock
	current := start
	part := 1
	for _, bp := range inside {
		// a break starting inside the previous one is dropped
		if timeutil.TimeToMinutes(bp.time) < timeutil.TimeToMinutes(current) {
			continue
		}
		if timeutil.TimeToMinutes(bp.time) > timeutil.TimeToMinutes(current) {
			blocks = append(blocks, newBlock(fmt.Sprintf("work-%s-%d", current, part),
				partLabel(label, part), current, bp.time, icon, false, models.BlockWork))
			part++
		}
		breakEnd := timeutil.AddMinutes(bp.time, bp.duration)
		blocks = append(blocks, newBlock("break-"+bp.time, bp.label, bp.time, breakEnd, bp.icon, true, models.BlockBreak))
		current = breakEnd
	}

	if timeutil.TimeToMinutes(current) < endMin {
		blocks = append(blocks, newBlock(fmt.Sprintf("work-%s-%d", current, part),
			partLabel(label, part), current, end, icon, false, models.BlockWork))
	}
	return blocks
}

func partLabel(label string, part int) string {
	if part >= 1 && part <= len(partMarks) {
		return fmt.Sprintf("%s %c", label, partMarks[part-1])
	}
	return fmt.Sprintf("%s %d", label, part)
}

// newBlock creates a block; editable blocks start with one empty to-do row
func newBlock(id, label, start, end, icon string, fixed bool, kind models.BlockType) models.TimeBlock {
	b := models.TimeBlock{
		ID:        id,
		Label:     label,
		StartTime: start,
		EndTime:   end,
		Icon:      icon,
		IsFixed:   fixed,
		BlockType: kind,
		Todos:     []models.TodoItem{},
	}
	if !fixed {
		b.Todos = append(b.Todos, models.TodoItem{ID: "todo-" + uuid.NewString()})
	}
	return b
}
