// Package timeutil converts between "HH:MM" wall-clock strings and minute offsets.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// MinutesPerDay is the length of one wall-clock cycle.
const MinutesPerDay = 24 * 60

// ErrInvalidTime is returned for strings that are not well-formed HH:MM values.
var ErrInvalidTime = errors.New("invalid time")

// ParseTime strictly parses an HH:MM string into minutes since midnight.
func ParseTime(t string) (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	hours, err := strconv.Atoi(t[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	minutes, err := strconv.Atoi(t[3:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, t)
	}
	return hours*60 + minutes, nil
}

// IsValidTime reports whether t is a well-formed HH:MM value.
func IsValidTime(t string) bool {
	_, err := ParseTime(t)
	return err == nil
}

// TimeToMinutes converts HH:MM to minutes since midnight.
// Malformed input is sanitized to 0; callers validate at the boundary.
func TimeToMinutes(t string) int {
	m, err := ParseTime(t)
	if err != nil {
		return 0
	}
	return m
}

// MinutesToTime formats a minute offset as HH:MM, wrapping it into a single day first.
func MinutesToTime(m int) string {
	normalized := Normalize(m)
	return fmt.Sprintf("%02d:%02d", normalized/60, normalized%60)
}

// Normalize maps any minute value into [0, MinutesPerDay).
func Normalize(m int) int {
	return ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// AddMinutes shifts an HH:MM value by delta minutes, wrapping around midnight.
func AddMinutes(t string, delta int) string {
	return MinutesToTime(TimeToMinutes(t) + delta)
}

// BlockDuration returns the length of the interval [start, end) in minutes.
// An end before start means the block crosses midnight. Equal times are a zero-length block.
func BlockDuration(start, end string) int {
	d := TimeToMinutes(end) - TimeToMinutes(start)
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

// Hour returns the hour component of an HH:MM value.
func Hour(t string) int {
	return TimeToMinutes(t) / 60
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// DateLayout is the calendar date format used for plan keys.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD plan date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders t as a YYYY-MM-DD plan date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
