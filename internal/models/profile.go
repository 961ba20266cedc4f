package models

import "time"

// Gender of the profile owner
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// LifestyleType selects how work or study segments are generated
type LifestyleType string

const (
	LifestyleOffice     LifestyleType = "office"
	LifestyleOfficeFlex LifestyleType = "office_flex"
	LifestyleShift      LifestyleType = "shift"
	LifestyleStudent    LifestyleType = "student"
	LifestyleFreelancer LifestyleType = "freelancer"
	LifestyleOther      LifestyleType = "other"
)

// ShiftType is the shift worked by a shift worker
type ShiftType string

const (
	ShiftDay       ShiftType = "day"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
	ShiftRotating  ShiftType = "rotating"
)

// WorkHourPeriod is a preferred working period for freelancers
type WorkHourPeriod string

const (
	PeriodMorning   WorkHourPeriod = "morning"
	PeriodAfternoon WorkHourPeriod = "afternoon"
	PeriodEvening   WorkHourPeriod = "evening"
	PeriodNight     WorkHourPeriod = "night"
)

// Weekday is a three-letter lowercase day name
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf converts a time.Weekday into the profile representation
func WeekdayOf(d time.Weekday) Weekday {
	return weekdays[d]
}

// Valid reports whether w is a known weekday
func (w Weekday) Valid() bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// UserProfile is the long-lived lifestyle description captured at onboarding
type UserProfile struct {
	Gender         Gender    `json:"gender" yaml:"gender" validate:"required,oneof=male female other"`
	TrackMenstrual *bool     `json:"trackMenstrual,omitempty" yaml:"trackMenstrual,omitempty"`
	Lifestyle      Lifestyle `json:"lifestyle" yaml:"lifestyle"`
	Sleep          Sleep     `json:"sleep" yaml:"sleep"`
	Meals          Meals     `json:"meals" yaml:"meals"`
	Exercise       Exercise  `json:"exercise" yaml:"exercise"`
	Breaks         *Breaks   `json:"breaks,omitempty" yaml:"breaks,omitempty"`
	Routines       *Routines `json:"routines,omitempty" yaml:"routines,omitempty"`
}

// ShowsMenstrualOption reports whether plans for this profile carry a menstrual condition
func (p *UserProfile) ShowsMenstrualOption() bool {
	return p.Gender == GenderFemale && p.TrackMenstrual != nil && *p.TrackMenstrual
}

// Lifestyle holds the type-specific work or study pattern
type Lifestyle struct {
	Type               LifestyleType    `json:"type" yaml:"type" validate:"required,lifestyle"`
	OfficeHours        *OfficeHours     `json:"officeHours,omitempty" yaml:"officeHours,omitempty"`
	CommuteMinutes     *int             `json:"commuteMinutes,omitempty" yaml:"commuteMinutes,omitempty" validate:"omitempty,min=0,max=240"`
	ShiftType          *ShiftType       `json:"shiftType,omitempty" yaml:"shiftType,omitempty" validate:"omitempty,shift_type"`
	ClassHours         *ClassHours      `json:"classHours,omitempty" yaml:"classHours,omitempty"`
	FreeDays           []Weekday        `json:"freeDays,omitempty" yaml:"freeDays,omitempty" validate:"omitempty,dive,weekday"`
	PreferredWorkHours []WorkHourPeriod `json:"preferredWorkHours,omitempty" yaml:"preferredWorkHours,omitempty" validate:"omitempty,dive,work_period"`
}

// OfficeHours is the fixed working day of an office worker
type OfficeHours struct {
	Start     string `json:"start" yaml:"start" validate:"required,hhmm"`
	End       string `json:"end" yaml:"end" validate:"required,hhmm"`
	LunchTime string `json:"lunchTime" yaml:"lunchTime" validate:"required,hhmm"`
}

// ClassHours is the class day of a student
type ClassHours struct {
	Start string `json:"start" yaml:"start" validate:"required,hhmm"`
	End   string `json:"end" yaml:"end" validate:"required,hhmm"`
}

// Sleep holds wake and bed times, optionally different on weekends
type Sleep struct {
	WakeTime         string `json:"wakeTime" yaml:"wakeTime" validate:"required,hhmm"`
	BedTime          string `json:"bedTime" yaml:"bedTime" validate:"required,hhmm"`
	WeekendDifferent bool   `json:"weekendDifferent,omitempty" yaml:"weekendDifferent,omitempty"`
	WeekendWakeTime  string `json:"weekendWakeTime,omitempty" yaml:"weekendWakeTime,omitempty" validate:"omitempty,hhmm"`
	WeekendBedTime   string `json:"weekendBedTime,omitempty" yaml:"weekendBedTime,omitempty" validate:"omitempty,hhmm"`
}

// Meal is a single meal slot
type Meal struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Time    string `json:"time,omitempty" yaml:"time,omitempty" validate:"omitempty,hhmm"`
}

// Meals holds the three daily meal slots
type Meals struct {
	Breakfast Meal `json:"breakfast" yaml:"breakfast"`
	Lunch     Meal `json:"lunch" yaml:"lunch"`
	Dinner    Meal `json:"dinner" yaml:"dinner"`
}

// Exercise describes the weekly exercise habit
type Exercise struct {
	Active      bool      `json:"active" yaml:"active"`
	WeeklyCount *int      `json:"weeklyCount,omitempty" yaml:"weeklyCount,omitempty" validate:"omitempty,min=1,max=5"`
	Days        []Weekday `json:"days,omitempty" yaml:"days,omitempty" validate:"omitempty,dive,weekday"`
	Time        string    `json:"time,omitempty" yaml:"time,omitempty" validate:"omitempty,hhmm"`
	Duration    *int      `json:"duration,omitempty" yaml:"duration,omitempty" validate:"omitempty,min=1,max=600"`
	Types       []string  `json:"types,omitempty" yaml:"types,omitempty"`
}

// BreakSetting is a configured rest break inside work or class hours
type BreakSetting struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Time     string `json:"time" yaml:"time" validate:"omitempty,hhmm"`
	Duration int    `json:"duration" yaml:"duration" validate:"min=0,max=240"`
}

// Breaks holds the optional morning and afternoon breaks
type Breaks struct {
	Morning   *BreakSetting `json:"morning,omitempty" yaml:"morning,omitempty"`
	Afternoon *BreakSetting `json:"afternoon,omitempty" yaml:"afternoon,omitempty"`
}

// Routine is an optional daily habit
type Routine struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty" validate:"omitempty,hhmm"`
	Duration *int   `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Routines holds caffeine, nap and meditation habits
type Routines struct {
	Caffeine   *Routine `json:"caffeine,omitempty" yaml:"caffeine,omitempty"`
	Nap        *Routine `json:"nap,omitempty" yaml:"nap,omitempty"`
	Meditation *Routine `json:"meditation,omitempty" yaml:"meditation,omitempty"`
}
