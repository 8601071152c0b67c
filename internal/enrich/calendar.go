//-------------------------------------------------------------------------
//
// pgEdge Star Schema Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package enrich derives metric columns from built tables. Every function
// returns a new table and leaves keys and source measures unchanged.
package enrich

import (
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-starbuild/internal/warehouse"
)

type holiday struct {
	month time.Month
	day   int
	name  string
}

// holidays are matched on month and day only.
var holidays = []holiday{
	{time.January, 1, "New Year's Day"},
	{time.December, 25, "Christmas"},
	{time.July, 4, "Independence Day"},
}

// Holiday reports whether d is a fixed observance and its name.
func Holiday(d time.Time) (bool, string) {
	for _, h := range holidays {
		if d.Month() == h.month && d.Day() == h.day {
			return true, h.name
		}
	}
	return false, ""
}

// DayOfWeek numbers weekdays from 1 (Monday) to 7 (Sunday).
func DayOfWeek(d time.Time) int {
	return (int(d.Weekday())+6)%7 + 1
}

// Quarter returns the calendar quarter of d.
func Quarter(d time.Time) int {
	return (int(d.Month())-1)/3 + 1
}

// Calendar fills the calendar attributes of the time dimension. The
// is_current flags are relative to ref, which callers take from an
// injected clock.
func Calendar(rows warehouse.TimeDim, ref time.Time) warehouse.TimeDim {
	ry, rm, rd := ref.Date()
	refYear, refWeek := ref.ISOWeek()
	refQuarter := Quarter(ref)

	out := make(warehouse.TimeDim, len(rows))
	for i, r := range rows {
		d := r.Date
		q := Quarter(d)
		half := 1
		if q > 2 {
			half = 2
		}
		dow := DayOfWeek(d)
		isoYear, isoWeek := d.ISOWeek()
		isHoliday, holidayName := Holiday(d)

		r.DayName = d.Weekday().String()
		r.MonthName = d.Month().String()
		r.DayOfWeek = dow
		r.WeekOfYear = isoWeek
		r.DayOfYear = d.YearDay()
		r.Quarter = q
		r.HalfYear = half
		r.QuarterLabel = fmt.Sprintf("Q%d %d", q, r.Year)
		r.HalfYearLabel = fmt.Sprintf("H%d %d", half, r.Year)
		r.FiscalYear = r.Year
		r.FiscalQuarter = q
		r.FiscalMonth = r.Month
		r.IsWeekend = dow >= 6
		r.IsWorkingDay = dow < 6
		r.IsHoliday = isHoliday
		r.HolidayName = holidayName

		r.IsCurrentYear = r.Year == ry
		r.IsCurrentQuarter = r.IsCurrentYear && q == refQuarter
		r.IsCurrentMonth = r.IsCurrentYear && time.Month(r.Month) == rm
		r.IsCurrentDay = r.IsCurrentMonth && r.Day == rd
		r.IsCurrentWeek = isoYear == refYear && isoWeek == refWeek

		out[i] = r
	}
	return out
}
