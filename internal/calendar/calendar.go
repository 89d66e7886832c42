// Package calendar computes the date windows used to look up daily journal
// pages and to title weekly pages.
//
// All functions are pure: they interpret the reference instant in whatever
// location it carries, so callers obtain it from a Clock pinned to a single
// zone.
package calendar

import (
	"fmt"
	"time"
)

// DayTitleLayout is the Go time layout for daily page titles ("yyyy/M/d (Ddd)").
const DayTitleLayout = "2006/1/2 (Mon)"

// rangeLayout renders the endpoints of a week range ("yyyy/M/d").
const rangeLayout = "2006/1/2"

// WeekLength is the number of days in every window.
const WeekLength = 7

// Mode selects how a reference date maps to the start of its week.
type Mode int

const (
	// MondayStart starts on the Monday on or before the reference date.
	// Sunday is treated as day 7 of the week that began six days earlier.
	MondayStart Mode = iota
	// SundayStart starts on the Sunday on or before the reference date
	// (reference minus its Sunday-based weekday).
	SundayStart
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case MondayStart:
		return "monday-start"
	case SundayStart:
		return "sunday-start"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Window is an ordered run of consecutive calendar days.
type Window []time.Time

// Titles formats every day in the window with layout.
func (w Window) Titles(layout string) []string {
	titles := make([]string, len(w))
	for i, d := range w {
		titles[i] = DayTitle(d, layout)
	}
	return titles
}

// First returns the first n days of the window.
func (w Window) First(n int) Window {
	if n > len(w) {
		n = len(w)
	}
	return w[:n]
}

// Range is an inclusive span of days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Link renders the range as "yyyy/M/d~yyyy/M/d", the connect-link form.
func (r Range) Link() string {
	return r.Start.Format(rangeLayout) + "~" + r.End.Format(rangeLayout)
}

// Title renders the range as "yyyy/M/d ~ yyyy/M/d", the weekly page title form.
func (r Range) Title() string {
	return r.Start.Format(rangeLayout) + " ~ " + r.End.Format(rangeLayout)
}

// Week returns the seven days containing ref under the given mode.
func Week(ref time.Time, mode Mode) Window {
	start := weekStart(ref, mode)
	days := make(Window, WeekLength)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// WeekTitles returns the seven Monday-start day titles for the week of ref.
func WeekTitles(ref time.Time, layout string) []string {
	return Week(ref, MondayStart).Titles(layout)
}

// ThisWeek returns the Monday..Sunday range containing ref.
func ThisWeek(ref time.Time) Range {
	start := weekStart(ref, MondayStart)
	return Range{Start: start, End: start.AddDate(0, 0, WeekLength-1)}
}

// NextWeek returns the Monday..Sunday range after the one containing ref.
// On a Sunday that is the week starting tomorrow.
func NextWeek(ref time.Time) Range {
	day := midnight(ref)
	wd := int(day.Weekday())
	var start time.Time
	if wd == 0 {
		start = day.AddDate(0, 0, 1)
	} else {
		start = day.AddDate(0, 0, 8-wd)
	}
	return Range{Start: start, End: start.AddDate(0, 0, WeekLength-1)}
}

// DayTitle formats a single day with layout, falling back to DayTitleLayout.
func DayTitle(t time.Time, layout string) string {
	if layout == "" {
		layout = DayTitleLayout
	}
	return t.Format(layout)
}

// MonthKey renders t as "yyyy-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonth returns the first day of the month before t, in t's location.
func PreviousMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
}

func weekStart(ref time.Time, mode Mode) time.Time {
	day := midnight(ref)
	wd := int(day.Weekday())
	switch mode {
	case SundayStart:
		return day.AddDate(0, 0, -wd)
	default:
		if wd == 0 {
			return day.AddDate(0, 0, -6)
		}
		return day.AddDate(0, 0, -(wd - 1))
	}
}

// midnight truncates to the start of the calendar day in t's own location.
// time.Truncate works in UTC and would shift the day for non-UTC zones.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
