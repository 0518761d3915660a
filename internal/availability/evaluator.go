package availability

import (
	"sort"
	"time"

	"reserva/internal/domain"
)

// Verdict classifies one candidate slot against the active reservation set.
type Verdict string

const (
	// Incomplete means start or end is unset; nothing to evaluate yet.
	Incomplete Verdict = "incomplete"
	// InvalidRange means end is not after start; blocks submission.
	InvalidRange Verdict = "invalid_range"
	// HardConflict means the candidate overlaps an approved reservation;
	// booking is blocked outright.
	HardConflict Verdict = "hard_conflict"
	// SoftConflict means the candidate overlaps only pending reservations;
	// booking is blocked but an intention may be declared instead.
	SoftConflict Verdict = "soft_conflict"
	// Free means the slot can be requested.
	Free Verdict = "free"
)

// Blocking reports whether the verdict forbids submitting a reservation.
func (v Verdict) Blocking() bool {
	return v == InvalidRange || v == HardConflict || v == SoftConflict
}

// Overlaps is the half-open interval intersection test: [aStart, aEnd) and
// [bStart, bEnd) overlap iff aStart < bEnd && aEnd > bStart. Touching
// endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CheckSlot evaluates the candidate [start, end) on the given target against
// the supplied reservations. Non-active and other-target entries are ignored,
// so callers may pass an unfiltered window. Approved overlaps dominate pending
// ones: any approved overlap yields HardConflict even when pending overlaps
// coexist. Pure function; the caller re-runs it whenever the candidate or the
// snapshot changes.
func CheckSlot(targetID int64, start, end time.Time, reservations []domain.Reservation) Verdict {
	if start.IsZero() || end.IsZero() {
		return Incomplete
	}
	if !end.After(start) {
		return InvalidRange
	}

	soft := false
	for _, r := range reservations {
		if r.TargetID != targetID || !r.Status.Active() {
			continue
		}
		if !Overlaps(start, end, r.StartTime, r.EndTime) {
			continue
		}
		if r.Status == domain.ReservationApproved {
			return HardConflict
		}
		soft = true
	}
	if soft {
		return SoftConflict
	}
	return Free
}

// Conflicting returns the active reservations on the target that overlap the
// candidate, sorted by start time. Used to show the requester what is in the
// way next to the verdict.
func Conflicting(targetID int64, start, end time.Time, reservations []domain.Reservation) []domain.Reservation {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil
	}
	var out []domain.Reservation
	for _, r := range reservations {
		if r.TargetID == targetID && r.Status.Active() && Overlaps(start, end, r.StartTime, r.EndTime) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// DayStatus is the per-day reduction of the active set for calendar painting.
type DayStatus string

const (
	DayFree        DayStatus = "none"
	DayHasPending  DayStatus = "has_pending"
	DayHasApproved DayStatus = "has_approved"
)

// DateKey is the map key format used by SummarizeDays.
const DateKey = "2006-01-02"

// SummarizeDays reduces the reservations whose start falls on each given day
// and whose target is in targetIDs to a single status per day. The precedence
// mirrors CheckSlot: one approved reservation marks the day has_approved no
// matter how many pending ones coexist. Passing several target ids unions
// their bookings first, which is how group lanes mark a day occupied when any
// member target is occupied.
func SummarizeDays(targetIDs []int64, days []time.Time, reservations []domain.Reservation) map[string]DayStatus {
	targets := make(map[int64]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		targets[id] = struct{}{}
	}

	out := make(map[string]DayStatus, len(days))
	for _, day := range days {
		out[day.Format(DateKey)] = DayFree
	}
	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		if _, ok := targets[r.TargetID]; !ok {
			continue
		}
		key := r.StartTime.Format(DateKey)
		cur, ok := out[key]
		if !ok {
			continue
		}
		if r.Status == domain.ReservationApproved {
			out[key] = DayHasApproved
		} else if cur != DayHasApproved {
			out[key] = DayHasPending
		}
	}
	return out
}

// ForDay returns the active reservations for the targets starting on the given
// calendar day, sorted by start time. Backs the occupied-slots list under the
// calendar and the admin day grid lanes.
func ForDay(targetIDs []int64, day time.Time, reservations []domain.Reservation) []domain.Reservation {
	targets := make(map[int64]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		targets[id] = struct{}{}
	}
	key := day.Format(DateKey)

	var out []domain.Reservation
	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		if _, ok := targets[r.TargetID]; !ok {
			continue
		}
		if r.StartTime.Format(DateKey) == key {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}
