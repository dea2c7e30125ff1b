package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date. Hour is 0-23, Minute 0-59.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// DaySchedule is the opening window for one weekday.
// A Close at or before Open means the window ends on the following calendar day.
type DaySchedule struct {
	Day       time.Weekday
	Open      TimeOfDay
	Close     TimeOfDay
	IsOpenDay bool
}

// Overnight reports whether the window spans midnight.
func (d DaySchedule) Overnight() bool { return d.Close.Minutes() <= d.Open.Minutes() }

// Week holds at most one DaySchedule per weekday.
// A Week is treated as an immutable snapshot and replaced wholesale on refresh.
type Week []DaySchedule

// Day returns the schedule for wd, if present.
func (w Week) Day(wd time.Weekday) (DaySchedule, bool) {
	for _, d := range w {
		if d.Day == wd {
			return d, true
		}
	}
	return DaySchedule{}, false
}

// StoreStatus is derived from a Week and a moment; it is never stored.
type StoreStatus struct {
	IsOpen     bool
	Message    string
	SubMessage string
	Day        time.Weekday
	OpensAt    *time.Time
	ClosesAt   *time.Time
}
