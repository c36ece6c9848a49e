package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for FromDate and ToDate.
const DateLayout = "2006-01-02"

// monthDayYear is the fixed leap year used to lay out month/day selections,
// so that February 29 is selectable.
const monthDayYear = 2024

// DateRange is an inclusive start and end date.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange validates and returns a range, swapping reversed bounds.
func NewDateRange(from, to time.Time) (DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return DateRange{}, fmt.Errorf("date range needs both a start and an end date")
	}
	if to.Before(from) {
		from, to = to, from
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange parses two yyyy-MM-dd dates.
func ParseDateRange(from, to string) (DateRange, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", to, err)
	}
	return NewDateRange(f, t)
}

// String renders the range as "yyyy-MM-dd to yyyy-MM-dd".
func (r DateRange) String() string {
	return r.From.Format(DateLayout) + " to " + r.To.Format(DateLayout)
}

// MonthDay is a month with an optional day. Day 0 selects the whole month.
type MonthDay struct {
	Month time.Month
	Day   int
}

// NewMonthDay validates a month and optional day against the month length.
func NewMonthDay(month, day int) (MonthDay, error) {
	if month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("invalid month: %d (must be 1-12)", month)
	}
	md := MonthDay{Month: time.Month(month)}
	if day < 0 || day > md.DaysInMonth() {
		return MonthDay{}, fmt.Errorf("invalid day %d for %s", day, md.Month)
	}
	md.Day = day
	return md, nil
}

// DaysInMonth returns the number of selectable days in the month.
func (md MonthDay) DaysInMonth() int {
	return time.Date(monthDayYear, md.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// HasDay reports whether a specific day was chosen.
func (md MonthDay) HasDay() bool {
	return md.Day > 0
}

// FromDate lays the selection out as a yyyy-MM-dd date, defaulting to the first day.
func (md MonthDay) FromDate() string {
	day := md.Day
	if day == 0 {
		day = 1
	}
	return fmt.Sprintf("%04d-%02d-%02d", monthDayYear, int(md.Month), day)
}

// String renders "March" or "March 15".
func (md MonthDay) String() string {
	if md.HasDay() {
		return fmt.Sprintf("%s %d", md.Month, md.Day)
	}
	return md.Month.String()
}

// TemporalKind identifies which temporal control is in effect.
type TemporalKind int

const (
	TemporalNone TemporalKind = iota
	TemporalRange
	TemporalMonthDay
)

// Temporal holds at most one temporal filter. Setting one kind replaces the
// other, so the most recently touched control is the one in effect.
type Temporal struct {
	Kind     TemporalKind
	Range    DateRange
	MonthDay MonthDay
}

// RangeFilter returns a temporal filter for a date range.
func RangeFilter(r DateRange) Temporal {
	return Temporal{Kind: TemporalRange, Range: r}
}

// MonthDayFilter returns a temporal filter for a month/day selection.
func MonthDayFilter(md MonthDay) Temporal {
	return Temporal{Kind: TemporalMonthDay, MonthDay: md}
}

// IsSet reports whether any temporal filter is in effect.
func (t Temporal) IsSet() bool {
	return t.Kind != TemporalNone
}

// String describes the active temporal filter.
func (t Temporal) String() string {
	switch t.Kind {
	case TemporalRange:
		return t.Range.String()
	case TemporalMonthDay:
		return t.MonthDay.String()
	default:
		return ""
	}
}
