// Package wellness picks a deterministic daily tip for each time block.
package wellness

import (
	"time"
	"unicode/utf16"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/timeutil"
)

const (
	conditionSeed = "daily-condition"
	menstrualSeed = "daily-menstrual"
)

// DailySummary holds the day-level tips shown above the plan
type DailySummary struct {
	ConditionTip string `json:"conditionTip" yaml:"conditionTip"`
	MenstrualTip string `json:"menstrualTip,omitempty" yaml:"menstrualTip,omitempty"`
}

// TipFor returns the tip for a block on date, or "" when its type has no pool
func TipFor(block models.TimeBlock, date time.Time) string {
	tip, ok := pick(poolFor(block), block.ID, date)
	if !ok {
		return ""
	}
	return tip.String()
}

// Assign returns copies of blocks with WellnessTip set for date
func Assign(blocks []models.TimeBlock, date time.Time) []models.TimeBlock {
	out := make([]models.TimeBlock, len(blocks))
	for i, b := range blocks {
		b.WellnessTip = TipFor(b, date)
		out[i] = b
	}
	return out
}

// Summary returns the condition tip and, outside the normal phase, a menstrual tip
func Summary(condition models.Condition, menstrual *models.MenstrualCondition, date time.Time) DailySummary {
	var s DailySummary
	if tip, ok := pick(conditionTips[condition], conditionSeed, date); ok {
		s.ConditionTip = tip.String()
	}
	if menstrual != nil && *menstrual != models.MenstrualNormal {
		if tip, ok := pick(menstrualTips[*menstrual], menstrualSeed, date); ok {
			s.MenstrualTip = tip.String()
		}
	}
	return s
}

func poolFor(block models.TimeBlock) []Tip {
	switch block.BlockType {
	case models.BlockSleep:
		if block.ID == "wake" {
			return wakeTips
		}
		return sleepTips
	case models.BlockMeal:
		switch block.ID {
		case "breakfast":
			return breakfastTips
		case "lunch":
			return lunchTips
		default:
			return dinnerTips
		}
	case models.BlockWork:
		if timeutil.Hour(block.StartTime) < 12 {
			return workMorningTips
		}
		return workAfternoonTips
	case models.BlockExercise:
		return exerciseTips
	case models.BlockBreak:
		return breakTips
	case models.BlockCommute:
		return commuteTips
	case models.BlockFree:
		return freeTimeTips
	default:
		return nil
	}
}

func pick(pool []Tip, seed string, date time.Time) (Tip, bool) {
	if len(pool) == 0 {
		return Tip{}, false
	}
	return pool[dailyIndex(len(pool), seed, date)], true
}

// dailyIndex changes once per calendar day and differs between seeds
func dailyIndex(n int, seed string, date time.Time) int {
	dayHash := int64(date.Year()*10000 + int(date.Month())*100 + date.Day())
	idx := (dayHash + int64(seedHash(seed))) % int64(n)
	if idx < 0 {
		idx = -idx
	}
	return int(idx)
}

// seedHash is the 32-bit wrapping h*31+c hash over UTF-16 code units
func seedHash(seed string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}
