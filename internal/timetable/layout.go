// Package timetable holds the pure rules behind timetable queries: how
// periods map onto the daily grid, which weeks a section meets, and which
// slots are free.
package timetable

import (
	"fmt"

	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

const (
	// LessonsPerDay is the number of lessons in a teaching day.
	LessonsPerDay = 12
	// SlotsPerDay is the number of two-lesson slots in a teaching day.
	SlotsPerDay = LessonsPerDay / 2
	// DaysPerWeek bounds weekday values (1 = Monday).
	DaysPerWeek = 7
)

// Layout says what a section's period number refers to.
type Layout string

const (
	// LayoutSlots: periods are slots 1-6, slot n covering lessons 2n-1 and 2n.
	// Slot 6 is lessons 11-12 and is exported as a single event.
	LayoutSlots Layout = config.PeriodLayoutSlots
	// LayoutLessons: periods are lessons 1-12. Free-slot analysis folds them
	// onto slots; export keeps each lesson as its own event.
	LayoutLessons Layout = config.PeriodLayoutLessons
)

// ParseLayout maps a configuration value to a Layout, defaulting to slots.
func ParseLayout(raw string) Layout {
	if raw == config.PeriodLayoutLessons {
		return LayoutLessons
	}
	return LayoutSlots
}

// MaxPeriod is the largest valid period under the layout.
func (l Layout) MaxPeriod() int {
	if l == LayoutLessons {
		return LessonsPerDay
	}
	return SlotsPerDay
}

// Slot folds a period onto the six-slot daily grid.
func (l Layout) Slot(period int) int {
	if l == LayoutLessons {
		return (period + 1) / 2
	}
	return period
}

// LessonRange returns the first and last lesson a section occupies.
// Duration counts lessons; a non-positive duration means the period's own span.
func (l Layout) LessonRange(period, duration int) (first, last int) {
	if l == LayoutLessons {
		first = period
		if duration <= 0 {
			duration = 1
		}
	} else {
		first = 2*period - 1
		if duration <= 0 {
			duration = 2
		}
	}
	last = first + duration - 1
	if last > LessonsPerDay {
		last = LessonsPerDay
	}
	return first, last
}

// ValidateSlot checks weekday and period bounds.
func (l Layout) ValidateSlot(weekday, period int) error {
	if weekday < 1 || weekday > DaysPerWeek {
		return fmt.Errorf("weekday %d out of range 1-%d", weekday, DaysPerWeek)
	}
	if period < 1 || period > l.MaxPeriod() {
		return fmt.Errorf("period %d out of range 1-%d", period, l.MaxPeriod())
	}
	return nil
}
