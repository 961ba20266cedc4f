// Package planner places to-do items into the schedulable blocks of a day.
package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
	"github.com/google/uuid"
)

const (
	// DefaultDuration is assumed for items without an estimate
	DefaultDuration = 30
	// LongTaskMinutes marks an item as long for bad-condition reordering
	LongTaskMinutes = 60

	reducedSuffix = " (reduced)"
)

// ErrBlockNotFound is returned when a block id is not part of the plan
var ErrBlockNotFound = errors.New("block not found")

// AssignResult is the outcome of AutoAssign
type AssignResult struct {
	UpdatedBlocks  []models.TimeBlock `json:"updatedBlocks" yaml:"updatedBlocks"`
	RemainingTodos []models.TodoItem  `json:"remainingTodos" yaml:"remainingTodos"`
	Advice         string             `json:"advice" yaml:"advice"`
}

// Alternative is a reduced to-do list suggested for a single block
type Alternative struct {
	Suggestion    string             `json:"suggestion" yaml:"suggestion"`
	ModifiedTodos []models.InputTodo `json:"modifiedTodos" yaml:"modifiedTodos"`
}

// AvailableMinutes returns the capacity of a block
func AvailableMinutes(b models.TimeBlock) int {
	return timeutil.BlockDuration(b.StartTime, b.EndTime)
}

// TotalDuration sums item durations, counting absent durations as zero
func TotalDuration(todos []models.TodoItem) int {
	total := 0
	for _, t := range todos {
		total += t.DurationOr(0)
	}
	return total
}

// IsOverflow reports whether a block holds more work than fits
func IsOverflow(b models.TimeBlock) bool {
	return TotalDuration(b.Todos) > AvailableMinutes(b)
}

// AutoAssign places new items into non-fixed work, free and exercise blocks with a
// single first-fit pass. Items that fit nowhere are returned in RemainingTodos.
func AutoAssign(input []models.InputTodo, blocks []models.TimeBlock, condition models.Condition) AssignResult {
	todos := make([]models.TodoItem, 0, len(input))
	for _, in := range input {
		todos = append(todos, normalize(in))
	}
	sortTodos(todos)
	if condition == models.ConditionBad {
		deferLongTasks(todos)
	}

	// targets point into updated by position so blocks sharing an id stay distinct
	updated := make([]models.TimeBlock, len(blocks))
	targets := make([]*models.TimeBlock, 0, len(blocks))
	for i, b := range blocks {
		if !schedulable(b) {
			updated[i] = b
			continue
		}
		c := b.Clone()
		c.Todos = slices.DeleteFunc(c.Todos, func(t models.TodoItem) bool {
			return strings.TrimSpace(t.Text) == ""
		})
		updated[i] = c
		targets = append(targets, &updated[i])
	}
	slices.SortStableFunc(targets, func(a, b *models.TimeBlock) int {
		return timeutil.TimeToMinutes(a.StartTime) - timeutil.TimeToMinutes(b.StartTime)
	})

	reversed := slices.Clone(targets)
	slices.Reverse(reversed)

	remaining := []models.TodoItem{}
	for _, todo := range todos {
		order := targets
		if todo.Priority == models.PriorityLow {
			order = reversed
		}
		need := todo.DurationOr(DefaultDuration)

		placed := false
		for _, b := range order {
			if TotalDuration(b.Todos)+need <= AvailableMinutes(*b) {
				b.Todos = append(b.Todos, todo)
				placed = true
				break
			}
		}
		if !placed {
			remaining = append(remaining, todo)
		}
	}

	return AssignResult{
		UpdatedBlocks:  updated,
		RemainingTodos: remaining,
		Advice:         advice(len(remaining)),
	}
}

// SuggestAlternative proposes a smaller to-do list for a block that does not fit
// the day's condition. At least one item survives, shortened to the capacity if needed.
func SuggestAlternative(block models.TimeBlock, condition models.Condition) Alternative {
	available := AvailableMinutes(block)

	todos := make([]models.TodoItem, 0, len(block.Todos))
	for _, t := range block.Todos {
		if strings.TrimSpace(t.Text) != "" {
			todos = append(todos, t)
		}
	}
	sortTodos(todos)

	candidates := todos
	if condition == models.ConditionBad {
		candidates = slices.DeleteFunc(slices.Clone(todos), func(t models.TodoItem) bool {
			return t.Priority.OrDefault() != models.PriorityHigh
		})
		if len(candidates) == 0 && len(todos) > 0 {
			candidates = todos[:1]
		}
	}

	picked := []models.InputTodo{}
	sum := 0
	for _, t := range candidates {
		d := t.DurationOr(DefaultDuration)
		if sum+d <= available {
			picked = append(picked, models.InputTodo{Text: t.Text, Duration: intPtr(d), Priority: t.Priority.OrDefault()})
			sum += d
		}
	}

	if len(picked) == 0 && len(candidates) > 0 {
		t := candidates[0]
		d := min(t.DurationOr(DefaultDuration), available)
		picked = append(picked, models.InputTodo{Text: t.Text + reducedSuffix, Duration: intPtr(d), Priority: t.Priority.OrDefault()})
	}

	suggestion := "Adjusted your to-dos to something more achievable for the time you have."
	if condition == models.ConditionBad {
		suggestion = "You're not feeling great today. Keep only what matters most and push the rest back."
	}
	return Alternative{Suggestion: suggestion, ModifiedTodos: picked}
}

// ApplyAlternative replaces the to-do list of one block with accepted items
func ApplyAlternative(blocks []models.TimeBlock, blockID string, todos []models.InputTodo) ([]models.TimeBlock, error) {
	idx := slices.IndexFunc(blocks, func(b models.TimeBlock) bool { return b.ID == blockID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	updated := make([]models.TimeBlock, len(blocks))
	for i, b := range blocks {
		updated[i] = b.Clone()
	}
	items := make([]models.TodoItem, 0, len(todos))
	for _, in := range todos {
		items = append(items, normalize(in))
	}
	updated[idx].Todos = items
	return updated, nil
}

func schedulable(b models.TimeBlock) bool {
	if b.IsFixed {
		return false
	}
	switch b.BlockType {
	case models.BlockWork, models.BlockFree, models.BlockExercise:
		return true
	default:
		return false
	}
}

func normalize(in models.InputTodo) models.TodoItem {
	d := DefaultDuration
	if in.Duration != nil {
		d = *in.Duration
	}
	return models.TodoItem{
		ID:       "todo-" + uuid.NewString(),
		Text:     strings.TrimSpace(in.Text),
		Duration: intPtr(d),
		Priority: in.Priority.OrDefault(),
	}
}

// sortTodos orders by priority, highest first, then by duration, longest first
func sortTodos(todos []models.TodoItem) {
	slices.SortStableFunc(todos, func(a, b models.TodoItem) int {
		if d := b.Priority.Score() - a.Priority.Score(); d != 0 {
			return d
		}
		return b.DurationOr(0) - a.DurationOr(0)
	})
}

// deferLongTasks moves long items behind short ones, keeping relative order
func deferLongTasks(todos []models.TodoItem) {
	slices.SortStableFunc(todos, func(a, b models.TodoItem) int {
		return longRank(a) - longRank(b)
	})
}

func longRank(t models.TodoItem) int {
	if t.DurationOr(0) >= LongTaskMinutes {
		return 1
	}
	return 0
}

func advice(remaining int) string {
	if remaining == 0 {
		return "All to-dos have been placed into time blocks. Take it one step at a time."
	}
	return fmt.Sprintf("Not enough time to place %d to-do(s) yet. Consider moving lower-priority items to tomorrow.", remaining)
}

func intPtr(v int) *int { return &v }
