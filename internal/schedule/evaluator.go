package schedule

import (
	"fmt"
	"storefront-delivery-service/internal/domain"
	"time"
)

// DefaultTimezone is the store's zone. Colombia has no DST.
const DefaultTimezone = "America/Bogota"

// LoadLocation resolves name, DefaultTimezone when empty. Only the default
// zone falls back to a fixed UTC-5 offset when the tz database lacks it; any
// other unknown name is an error.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}
	if name == DefaultTimezone {
		return time.FixedZone(name, -5*60*60), nil
	}
	return nil, fmt.Errorf("load location %q: %w", name, err)
}

// Evaluate decides whether the store is open at now, in loc, according to week.
//
// Only today's entry is consulted for the open check: a window that spans
// midnight is evaluated from the day it starts on, and after local midnight the
// next day's entry applies. A window is open on both of its ends inclusive.
func Evaluate(week domain.Week, now time.Time, loc *time.Location, msgs Messages) domain.StoreStatus {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)

	status := domain.StoreStatus{Day: local.Weekday()}

	today, ok := week.Day(local.Weekday())
	if !ok || !today.IsOpenDay {
		status.Message = msgs.ClosedToday
		return status
	}

	openAt := atClock(local, today.Open, loc)
	closeAt := atClock(local, today.Close, loc)
	if !closeAt.After(openAt) {
		closeAt = closeAt.AddDate(0, 0, 1)
	}

	if !local.Before(openAt) && !local.After(closeAt) {
		status.IsOpen = true
		status.Message = msgs.Open
		status.SubMessage = closesIn(closeAt.Sub(local), msgs)
		status.ClosesAt = &closeAt
		return status
	}

	status.Message = msgs.Closed

	if local.Before(openAt) {
		status.SubMessage = msgs.OpensAt(FormatClock(today.Open))
		status.OpensAt = &openAt
		return status
	}

	status.SubMessage, status.OpensAt = nextOpening(week, local, loc, msgs)
	return status
}

// nextOpening renders the first opening after local's day. The scan wraps to
// local's own weekday a week later, so Evaluate, which only gets here when
// today is an open day, always finds one; a week with no open day yields
// OpensSoon and no instant.
func nextOpening(week domain.Week, local time.Time, loc *time.Location, msgs Messages) (string, *time.Time) {
	next, offset, found := nextOpenDay(week, local.Weekday())
	if !found {
		return msgs.OpensSoon, nil
	}

	opensAt := atClock(local.AddDate(0, 0, offset), next.Open, loc)
	if offset == 1 {
		return msgs.OpensTomorrow(FormatClock(next.Open)), &opensAt
	}
	return msgs.OpensAt(FormatClock(next.Open)), &opensAt
}

// nextOpenDay scans the seven days after from (wrapping to from itself a week later).
func nextOpenDay(week domain.Week, from time.Weekday) (domain.DaySchedule, int, bool) {
	for offset := 1; offset <= 7; offset++ {
		wd := time.Weekday((int(from) + offset) % 7)
		if d, ok := week.Day(wd); ok && d.IsOpenDay {
			return d, offset, true
		}
	}
	return domain.DaySchedule{}, 0, false
}

func atClock(day time.Time, t domain.TimeOfDay, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func closesIn(remaining time.Duration, msgs Messages) string {
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)

	if hours == 0 && minutes == 0 {
		return msgs.ClosesSoon
	}
	return msgs.ClosesIn(hours, minutes)
}
