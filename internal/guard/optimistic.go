package guard

import (
	"context"

	"github.com/DenizBitmez/event-hub/internal/repository"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/jackc/pgx/v5"
)

// OptimisticGuard reads without locking and writes conditionally on the
// event's version token. A losing writer gets no rows updated; the guard
// re-reads to decide between a genuine sold-out and a token race, retrying
// the whole read-modify-write up to maxRetries times before surfacing
// ErrCapacityConflict. Unlike the pessimistic strategy this can reject a
// request while capacity remains, purely because of write contention, so
// the two rejection reasons stay distinct.
type OptimisticGuard struct {
	txm        repository.TxManager
	events     repository.EventRepository
	maxRetries int
}

func NewOptimisticGuard(txm repository.TxManager, events repository.EventRepository, maxRetries int) *OptimisticGuard {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &OptimisticGuard{txm: txm, events: events, maxRetries: maxRetries}
}

func (g *OptimisticGuard) Reserve(ctx context.Context, eventID, quantity int, fn ReserveFn) (int, error) {
	var remaining int

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		conflicted := false

		err := g.txm.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			event, err := g.events.FindByIDInTx(ctx, tx, eventID)
			if err != nil {
				return err
			}

			if !event.HasCapacity(quantity) {
				remaining = event.CapacityRemaining
				return apperrors.ErrSoldOut
			}

			ok, err := g.events.DecrementCapacityIfVersionMatches(ctx, tx, eventID, quantity, event.Version)
			if err != nil {
				return err
			}
			if !ok {
				// Zero rows matched: either another writer rotated the
				// version, or capacity dropped below quantity in between.
				// Re-read to tell which; a conflict rolls back and retries.
				current, err := g.events.FindByIDInTx(ctx, tx, eventID)
				if err != nil {
					return err
				}
				if !current.HasCapacity(quantity) {
					remaining = current.CapacityRemaining
					return apperrors.ErrSoldOut
				}
				conflicted = true
				return apperrors.ErrCapacityConflict
			}

			event.CapacityRemaining -= quantity
			remaining = event.CapacityRemaining

			return fn(ctx, tx, event)
		})

		if conflicted {
			continue
		}
		return remaining, err
	}

	return 0, apperrors.ErrCapacityConflict
}

var _ CapacityGuard = (*OptimisticGuard)(nil)
