package guard

import (
	"context"

	"github.com/DenizBitmez/event-hub/internal/repository"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/jackc/pgx/v5"
)

// PessimisticGuard serializes contenders on the event row itself with
// SELECT ... FOR UPDATE. Decrements for one event execute in a total
// order; no caller ever observes a stale read. Throughput is bounded by
// how long the row lock is held, which is why fn must stay inside the
// single check-decrement-insert unit and nothing else.
type PessimisticGuard struct {
	txm    repository.TxManager
	events repository.EventRepository
}

func NewPessimisticGuard(txm repository.TxManager, events repository.EventRepository) *PessimisticGuard {
	return &PessimisticGuard{txm: txm, events: events}
}

func (g *PessimisticGuard) Reserve(ctx context.Context, eventID, quantity int, fn ReserveFn) (int, error) {
	var remaining int

	err := g.txm.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := g.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		if !event.HasCapacity(quantity) {
			remaining = event.CapacityRemaining
			return apperrors.ErrSoldOut
		}

		if err := g.events.DecrementCapacity(ctx, tx, eventID, quantity); err != nil {
			return err
		}

		event.CapacityRemaining -= quantity
		remaining = event.CapacityRemaining

		return fn(ctx, tx, event)
	})

	return remaining, err
}

var _ CapacityGuard = (*PessimisticGuard)(nil)
