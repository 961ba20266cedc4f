// Package reminder schedules one notification per eligible time block of today's plan.
package reminder

import (
	"errors"
	"time"
)

// Timing is how far ahead of a block's start its reminder fires
type Timing string

const (
	TimingOnTime      Timing = "on_time"
	Timing5MinBefore  Timing = "5_min_before"
	Timing10MinBefore Timing = "10_min_before"
	Timing15MinBefore Timing = "15_min_before"
)

// ErrInvalidTiming is returned for an unknown timing value
var ErrInvalidTiming = errors.New("invalid notification timing")

var offsets = map[Timing]time.Duration{
	TimingOnTime:      0,
	Timing5MinBefore:  5 * time.Minute,
	Timing10MinBefore: 10 * time.Minute,
	Timing15MinBefore: 15 * time.Minute,
}

// ParseTiming validates a timing value
func ParseTiming(s string) (Timing, error) {
	t := Timing(s)
	if _, ok := offsets[t]; !ok {
		return "", ErrInvalidTiming
	}
	return t, nil
}

// Offset returns the lead time; unknown timings fire on time
func (t Timing) Offset() time.Duration {
	return offsets[t]
}

// Settings are a user's reminder preferences
type Settings struct {
	Enabled bool   `json:"enabled"`
	Timing  Timing `json:"timing" validate:"required"`
}
