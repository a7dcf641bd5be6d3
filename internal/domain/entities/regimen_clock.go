package entities

import (
	"errors"
	"time"
)

var errMissingStartDate = errors.New("start date is empty")

const secondsPerDay = 24 * 60 * 60

// CourseState is the temporal classification of a regimen on a given date.
type CourseState string

const (
	StateActive  CourseState = "active"
	StateOnBreak CourseState = "on_break"
)

// RegimenStatus is the result of Classify.
// DaysLeft is meaningful for StateActive, NextCycleStart for StateOnBreak.
type RegimenStatus struct {
	State          CourseState
	DaysLeft       int
	EndDate        time.Time
	NextCycleStart time.Time
}

// DaysIn converts a duration to days. A month is always 30 days.
func DaysIn(value int, unit DurationUnit) int {
	if unit == UnitDays {
		return value
	}
	return value * daysPerMonthApprx
}

// DateOf strips the clock part of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days in whole seconds, since a time.Duration
// cannot hold spans longer than about 292 years.
func daysBetween(from, to time.Time) int {
	return int((DateOf(to).Unix() - DateOf(from).Unix()) / secondsPerDay)
}

// Start parses the stored start date.
func (r *Regimen) Start() (time.Time, error) {
	if r.StartDate == "" {
		return time.Time{}, &DataError{RegimenID: r.ID, Field: FieldStartDate, Err: errMissingStartDate}
	}
	t, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, &DataError{RegimenID: r.ID, Field: FieldStartDate, Err: err}
	}
	return t, nil
}

// EndDate is the start date plus the course duration.
func (r *Regimen) EndDate() (time.Time, error) {
	start, err := r.Start()
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, DaysIn(r.DurationValue, r.DurationUnit)), nil
}

// NextCycleStart is the end date plus the break.
func (r *Regimen) NextCycleStart() (time.Time, error) {
	end, err := r.EndDate()
	if err != nil {
		return time.Time{}, err
	}
	return end.AddDate(0, 0, DaysIn(r.BreakValue, r.BreakUnit)), nil
}

// DaysLeft returns whole days from today to the end date. Zero or negative once the course ended.
func (r *Regimen) DaysLeft(today time.Time) (int, error) {
	end, err := r.EndDate()
	if err != nil {
		return 0, err
	}
	return daysBetween(today, end), nil
}

// Classify reports whether the regimen is active or on break on the given date.
func (r *Regimen) Classify(today time.Time) (RegimenStatus, error) {
	end, err := r.EndDate()
	if err != nil {
		return RegimenStatus{}, err
	}

	left := daysBetween(today, end)
	if left > 0 {
		return RegimenStatus{State: StateActive, DaysLeft: left, EndDate: end}, nil
	}

	next := end.AddDate(0, 0, DaysIn(r.BreakValue, r.BreakUnit))
	return RegimenStatus{State: StateOnBreak, DaysLeft: left, EndDate: end, NextCycleStart: next}, nil
}

// InCourse reports whether today lies inside the running course window.
func (r *Regimen) InCourse(today time.Time) (bool, error) {
	status, err := r.Classify(today)
	if err != nil {
		return false, err
	}
	if status.State != StateActive {
		return false, nil
	}

	start, _ := r.Start()
	day := DateOf(today)
	return !day.Before(start) && !day.After(status.EndDate), nil
}
