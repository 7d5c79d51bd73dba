package guard

import (
	"context"
	"fmt"

	"github.com/DenizBitmez/event-hub/internal/lease"
	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/repository"

	"github.com/jackc/pgx/v5"
)

// Strategy names accepted by CAPACITY_STRATEGY.
const (
	StrategyPessimistic = "pessimistic"
	StrategyOptimistic  = "optimistic"
	StrategyRedisLock   = "redis_lock"
)

// ReserveFn runs inside the same durable transaction as the capacity
// decrement, after it succeeded. The event carries the post-decrement
// remaining capacity. Returning an error rolls back the decrement too.
type ReserveFn func(ctx context.Context, tx pgx.Tx, event *model.Event) error

// CapacityGuard decrements an event's remaining capacity such that
// concurrent callers never jointly overdraw the pool. The decrement and
// everything fn does commit atomically or not at all.
//
// Rejections: ErrSoldOut (capacity exhausted), ErrCapacityConflict
// (optimistic write lost its race, retryable), ErrEventLockBusy (mutex
// strategy under contention), ErrEventNotFound.
type CapacityGuard interface {
	Reserve(ctx context.Context, eventID, quantity int, fn ReserveFn) (remaining int, err error)
}

// New selects a guard implementation by configured strategy name.
func New(strategy string, txm repository.TxManager, events repository.EventRepository, locker *lease.EventLocker, maxRetries int) (CapacityGuard, error) {
	switch strategy {
	case StrategyPessimistic:
		return NewPessimisticGuard(txm, events), nil
	case StrategyOptimistic:
		return NewOptimisticGuard(txm, events, maxRetries), nil
	case StrategyRedisLock:
		return NewRedisLockGuard(txm, events, locker), nil
	default:
		return nil, fmt.Errorf("unknown capacity strategy %q", strategy)
	}
}
