package models

// Priority of a to-do item
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Score ranks priorities for ordering; unknown or empty priorities score as medium
func (p Priority) Score() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// OrDefault returns medium for an absent priority
func (p Priority) OrDefault() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// BlockType categorizes a time block
type BlockType string

const (
	BlockWork     BlockType = "work"
	BlockMeal     BlockType = "meal"
	BlockBreak    BlockType = "break"
	BlockCommute  BlockType = "commute"
	BlockExercise BlockType = "exercise"
	BlockSleep    BlockType = "sleep"
	BlockFree     BlockType = "free"
)

// Condition is the self-reported wellbeing of the day
type Condition string

const (
	ConditionGood   Condition = "good"
	ConditionNormal Condition = "normal"
	ConditionBad    Condition = "bad"
)

// Valid reports whether c is a known condition
func (c Condition) Valid() bool {
	return c == ConditionGood || c == ConditionNormal || c == ConditionBad
}

// MenstrualCondition is the optional cycle phase of the day
type MenstrualCondition string

const (
	MenstrualNormal MenstrualCondition = "normal"
	MenstrualPMS    MenstrualCondition = "pms"
	MenstrualPeriod MenstrualCondition = "period"
	MenstrualPost   MenstrualCondition = "post"
)

// TodoItem is a task owned by exactly one time block
type TodoItem struct {
	ID        string   `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text" validate:"max=10000"`
	Duration  *int     `json:"duration,omitempty" yaml:"duration,omitempty" validate:"omitempty,min=0,max=1440"`
	Priority  Priority `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,priority"`
	Completed bool     `json:"completed" yaml:"completed"`
}

// DurationOr returns the item duration, or def when absent
func (t TodoItem) DurationOr(def int) int {
	if t.Duration == nil {
		return def
	}
	return *t.Duration
}

// InputTodo is an unscheduled to-do submitted for automatic placement
type InputTodo struct {
	Text     string   `json:"text" yaml:"text" validate:"required,max=10000"`
	Duration *int     `json:"duration,omitempty" yaml:"duration,omitempty" validate:"omitempty,min=1,max=1440"`
	Priority Priority `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,priority"`
}

// TimeBlock is a labeled interval of the day; EndTime before StartTime crosses midnight
type TimeBlock struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	Label        string     `json:"label" yaml:"label"`
	StartTime    string     `json:"startTime" yaml:"startTime" validate:"required,hhmm"`
	EndTime      string     `json:"endTime" yaml:"endTime" validate:"required,hhmm"`
	Icon         string     `json:"icon" yaml:"icon"`
	IsFixed      bool       `json:"isFixed" yaml:"isFixed"`
	BlockType    BlockType  `json:"blockType" yaml:"blockType" validate:"required,block_type"`
	Todos        []TodoItem `json:"todos" yaml:"todos" validate:"dive"`
	ExerciseType string     `json:"exerciseType,omitempty" yaml:"exerciseType,omitempty"`
	ExercisePlan string     `json:"exercisePlan,omitempty" yaml:"exercisePlan,omitempty"`
	WellnessTip  string     `json:"wellnessTip,omitempty" yaml:"wellnessTip,omitempty"`
}

// Clone returns a copy of the block that does not share its to-do slice
func (b TimeBlock) Clone() TimeBlock {
	todos := make([]TodoItem, len(b.Todos))
	copy(todos, b.Todos)
	b.Todos = todos
	return b
}

// DailyPlan is the persisted snapshot of one user's day
type DailyPlan struct {
	Date               string              `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Condition          Condition           `json:"condition" yaml:"condition" validate:"required,condition"`
	MenstrualCondition *MenstrualCondition `json:"menstrualCondition,omitempty" yaml:"menstrualCondition,omitempty" validate:"omitempty,menstrual"`
	TimeBlocks         []TimeBlock         `json:"timeBlocks" yaml:"timeBlocks" validate:"dive"`
	TodayExerciseType  string              `json:"todayExerciseType,omitempty" yaml:"todayExerciseType,omitempty"`
	Notes              string              `json:"notes" yaml:"notes" validate:"max=20000"`
}

// PlanSummary is a dated entry returned by range listings
type PlanSummary struct {
	Date string     `json:"date"`
	Plan *DailyPlan `json:"plan"`
}
