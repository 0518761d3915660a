package calendar

import (
	"context"
	"time"

	"reserva/internal/availability"
)

// Service answers the requester-facing availability questions: is this slot
// free right now, and how do the next weeks look for a target. All answers
// come from the in-memory snapshot; nothing here touches the database.
type Service struct {
	snapshot SnapshotReader
	lanes    LaneProvider
	policy   availability.Policy
	now      func() time.Time
}

func NewService(snapshot SnapshotReader, lanes LaneProvider, policy availability.Policy) *Service {
	return &Service{
		snapshot: snapshot,
		lanes:    lanes,
		policy:   policy,
		now:      time.Now,
	}
}

// CheckSlot evaluates a candidate slot against the current snapshot. A soft
// conflict flags that declaring an intention is the available fallback.
func (s *Service) CheckSlot(ctx context.Context, targetID int64, start, end time.Time) (*SlotCheckResponse, error) {
	if _, err := s.laneTargets(ctx, targetID); err != nil {
		return nil, err
	}

	snap := s.snapshot.Current()
	verdict := availability.CheckSlot(targetID, start, end, snap.Reservations)

	return &SlotCheckResponse{
		Verdict:          verdict,
		Blocking:         verdict.Blocking(),
		IntentionAllowed: verdict == availability.SoftConflict,
		Conflicts:        availability.Conflicting(targetID, start, end, snap.Reservations),
		SnapshotAt:       snap.FetchedAt,
	}, nil
}

// Days paints the rolling calendar for a target. The day statuses union over
// the target's whole lane, so a streaming account shows its sibling's bookings
// too; selectability is pure policy and ignores occupancy.
func (s *Service) Days(ctx context.Context, targetID int64) ([]DayInfo, error) {
	laneIDs, err := s.laneTargets(ctx, targetID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	days := s.policy.Lookahead(now)
	snap := s.snapshot.Current()
	statuses := availability.SummarizeDays(laneIDs, days, snap.Reservations)

	out := make([]DayInfo, 0, len(days))
	for _, day := range days {
		key := day.Format(availability.DateKey)
		out = append(out, DayInfo{
			Date:       key,
			Status:     statuses[key],
			Selectable: s.policy.IsSelectable(day, now),
		})
	}
	return out, nil
}

// Day lists the occupied slots of one calendar day on the target's lane.
func (s *Service) Day(ctx context.Context, targetID int64, date string) (*DaySlots, error) {
	laneIDs, err := s.laneTargets(ctx, targetID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse(availability.DateKey, date)
	if err != nil {
		return nil, ErrBadDate
	}

	snap := s.snapshot.Current()
	return &DaySlots{
		Date:         date,
		Reservations: availability.ForDay(laneIDs, day, snap.Reservations),
	}, nil
}

// laneTargets returns every target id sharing a lane with targetID, the id
// itself included. Errors when the id is not a bookable leaf.
func (s *Service) laneTargets(ctx context.Context, targetID int64) ([]int64, error) {
	lanes, err := s.lanes.Lanes(ctx)
	if err != nil {
		return nil, err
	}
	for _, lane := range lanes {
		for _, id := range lane.TargetIDs {
			if id == targetID {
				return lane.TargetIDs, nil
			}
		}
	}
	return nil, ErrUnknownTarget
}
