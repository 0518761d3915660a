package calendar

import (
	"context"

	"reserva/internal/availability"
	"reserva/internal/modules/catalog"
)

// SnapshotReader exposes the refresher-maintained availability snapshot.
type SnapshotReader interface {
	Current() availability.Snapshot
}

// LaneProvider resolves the display lanes so a target's calendar unions the
// bookings of every lane member.
type LaneProvider interface {
	Lanes(ctx context.Context) ([]catalog.Lane, error)
}
