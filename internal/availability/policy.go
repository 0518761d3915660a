package availability

import "time"

// Policy carries the temporal booking rules. The lock window and the
// cancellation cutoff are independent knobs with independent justifications
// (admin lead time vs. courtesy notice); they are configured separately and
// never derived from one another.
type Policy struct {
	// MinLeadTime is how far ahead of "now" the start of a day must be for
	// the day to be selectable.
	MinLeadTime time.Duration
	// CancelCutoff is how much time must remain before a reservation's start
	// for the owner to still cancel it.
	CancelCutoff time.Duration
	// LookaheadDays is the size of the rolling calendar window.
	LookaheadDays int
}

// DefaultPolicy matches the institutional rules: 48h lock window, 24h
// cancellation cutoff, 30-day calendar.
func DefaultPolicy() Policy {
	return Policy{
		MinLeadTime:   48 * time.Hour,
		CancelCutoff:  24 * time.Hour,
		LookaheadDays: 30,
	}
}

// IsSelectable reports whether a day may be picked at all: false for the
// current calendar day and everything before it, and false when the start of
// the day is less than MinLeadTime after now. Evaluated against a live now on
// every call so the window stays correct as time advances.
func (p Policy) IsSelectable(day, now time.Time) bool {
	dayStart := StartOfDay(day)
	today := StartOfDay(now)
	if !dayStart.After(today) {
		return false
	}
	return dayStart.Sub(now) >= p.MinLeadTime
}

// CanCancel reports whether the owner may still cancel a reservation starting
// at start: strictly more than CancelCutoff must remain. At exactly the
// cutoff, cancellation is already rejected.
func (p Policy) CanCancel(start, now time.Time) bool {
	return start.Sub(now) > p.CancelCutoff
}

// Lookahead returns the rolling calendar window: LookaheadDays consecutive
// days starting today, at midnight in now's location.
func (p Policy) Lookahead(now time.Time) []time.Time {
	days := make([]time.Time, 0, p.LookaheadDays)
	start := StartOfDay(now)
	for i := 0; i < p.LookaheadDays; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WorkWeek returns the Monday through Saturday of the week containing day,
// which is the span the admin weekly view renders.
func WorkWeek(day time.Time) []time.Time {
	d := StartOfDay(day)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := d.AddDate(0, 0, 1-weekday)
	week := make([]time.Time, 6)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}
