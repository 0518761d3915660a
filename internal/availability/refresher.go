package availability

import (
	"context"
	"fmt"
	"log"
	"time"

	"reserva/internal/domain"
)

// ReservationSource loads the reservation window the evaluator works over.
// The reservation repository implements it; tests substitute fakes.
type ReservationSource interface {
	ActiveWindow(ctx context.Context, from, to time.Time) ([]domain.Reservation, error)
}

// Refresher keeps the snapshot store warm by periodically reloading the active
// reservation window. Snapshot generations make superseded fetches harmless:
// a slow older fetch that completes after a newer one is discarded by the
// store, and a failed fetch leaves the previous snapshot serving reads.
type Refresher struct {
	source   ReservationSource
	store    *SnapshotStore
	policy   Policy
	interval time.Duration
	logger   *log.Logger
}

func NewRefresher(source ReservationSource, store *SnapshotStore, policy Policy, interval time.Duration, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = log.Default()
	}
	return &Refresher{
		source:   source,
		store:    store,
		policy:   policy,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes immediately and then on every tick until the context ends.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.RefreshOnce(ctx); err != nil {
		r.logger.Printf("availability refresh failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Printf("availability refresh failed: %v", err)
			}
		case <-ctx.Done():
			r.logger.Println("availability refresher stopping")
			return
		}
	}
}

// RefreshOnce performs one fetch-and-apply cycle. The window spans from the
// start of yesterday (to keep reservations running into today visible) to the
// end of the lookahead calendar.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	gen := r.store.Begin()
	now := time.Now()
	from := StartOfDay(now).AddDate(0, 0, -1)
	to := StartOfDay(now).AddDate(0, 0, r.policy.LookaheadDays+1)

	reservations, err := r.source.ActiveWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load active window: %w", err)
	}

	if !r.store.Apply(gen, reservations, now) {
		r.logger.Printf("availability snapshot generation %d superseded, discarded", gen)
	}
	return nil
}
