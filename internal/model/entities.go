// Package model defines the in-memory entity set for the rostering core:
// an arena-style collection of Employees and ShiftTemplates referenced by
// stable integer ids, plus the Problem/Schedule/SolveResult contract every
// solver shares. No entity holds a back-pointer to another; all lookups go
// through Problem instead.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pguetschow/rostercore/internal/timeutil"
)

// EmployeeID is a stable integer identity, never reused within a Problem.
type EmployeeID int

// ShiftID is a stable integer identity, never reused within a Problem.
type ShiftID int

// Employee is immutable for the lifetime of a solve.
type Employee struct {
	ID              EmployeeID
	Name            string
	WeeklyHoursCap  int          // multiple of 8
	AbsenceDates    map[Date]struct{}
	PreferredShifts map[ShiftID]struct{}
}

// IsAbsent reports whether the employee is marked absent on d.
func (e *Employee) IsAbsent(d Date) bool {
	_, absent := e.AbsenceDates[d]
	return absent
}

// Prefers reports whether the employee prefers the given shift, matched by id.
func (e *Employee) Prefers(id ShiftID) bool {
	_, ok := e.PreferredShifts[id]
	return ok
}

// ShiftTemplate describes a recurring shift slot. StartMinutes/EndMinutes are
// minutes-from-midnight (timeutil convention); EndMinutes <= StartMinutes
// denotes a shift crossing midnight. DurationHours is precomputed once at
// construction and never re-derived in hot loops.
type ShiftTemplate struct {
	ID            ShiftID
	Name          string
	StartMinutes  int
	EndMinutes    int
	MinStaff      int
	MaxStaff      int
	DurationHours decimal.Decimal
}

// NewShiftTemplate constructs a ShiftTemplate with its duration precomputed.
func NewShiftTemplate(id ShiftID, name string, startMinutes, endMinutes, minStaff, maxStaff int) ShiftTemplate {
	normalizedEnd := timeutil.NormalizeCrossMidnight(startMinutes, endMinutes)
	durationMinutes := normalizedEnd - startMinutes
	if endMinutes == startMinutes {
		durationMinutes = timeutil.MinutesPerDay // equal start/end wraps to a full day
	}
	return ShiftTemplate{
		ID:            id,
		Name:          name,
		StartMinutes:  startMinutes,
		EndMinutes:    endMinutes,
		MinStaff:      minStaff,
		MaxStaff:      maxStaff,
		DurationHours: decimal.NewFromInt(int64(durationMinutes)).Div(decimal.NewFromInt(60)),
	}
}

// CrossesMidnight reports whether the shift wraps past midnight.
func (s ShiftTemplate) CrossesMidnight() bool {
	return s.EndMinutes <= s.StartMinutes
}

// StartTime returns the shift's start as a wall-clock time.Time anchored to day.
func (s ShiftTemplate) StartTime(day Date) time.Time {
	return timeutil.MinutesToTime(day.Time(), s.StartMinutes)
}

// EndTime returns the shift's end as a wall-clock time.Time anchored to day,
// rolled to the following day when the shift crosses midnight.
func (s ShiftTemplate) EndTime(day Date) time.Time {
	end := timeutil.MinutesToTime(day.Time(), s.EndMinutes)
	if s.CrossesMidnight() {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// CompanyPolicy controls which dates count as working days.
type CompanyPolicy struct {
	SundayIsWorkday   bool
	WorkweekSize      int // 5..7
	ExtraBlockedDates map[Date]struct{}
	HolidayTable      map[int]map[MonthDay]string // year -> (month,day) -> name; caller-supplied override
}

// MonthDay is a calendar month/day pair, used as a holiday-table key.
type MonthDay struct {
	Month time.Month
	Day   int
}
