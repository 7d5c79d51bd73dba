package lease

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
)

// SeatLeaseManager implements the hold/confirm/expire protocol for
// individually addressable seats. A hold is an exclusive, TTL-bounded
// claim; the durable sale happens elsewhere. There is no delete-on-confirm:
// TTL expiry is the single release mechanism, so a holder who walks away
// needs no cleanup code, and a confirmed lease simply outlives its purpose.
type SeatLeaseManager struct {
	store Store
	ttl   time.Duration
}

func NewSeatLeaseManager(store Store, ttl time.Duration) *SeatLeaseManager {
	return &SeatLeaseManager{store: store, ttl: ttl}
}

func seatKey(eventID, seatID int) string {
	return fmt.Sprintf("seat:%d:%d", eventID, seatID)
}

// Reserve claims the seat for holderID. Exactly one concurrent caller
// succeeds per seat; everyone else is rejected immediately, never queued.
func (m *SeatLeaseManager) Reserve(ctx context.Context, eventID, seatID, holderID int) error {
	ok, err := m.store.Acquire(ctx, seatKey(eventID, seatID), strconv.Itoa(holderID), m.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrSeatAlreadyHeld
	}
	return nil
}

// Confirm verifies the hold still exists and belongs to holderID. It does
// not touch the lease: deleting it here would release the seat while the
// durable sale may still be in flight or retried.
func (m *SeatLeaseManager) Confirm(ctx context.Context, eventID, seatID, holderID int) error {
	holder, err := m.store.Get(ctx, seatKey(eventID, seatID))
	if err != nil {
		return err
	}
	if holder == "" {
		return apperrors.ErrLeaseExpired
	}
	if holder != strconv.Itoa(holderID) {
		return apperrors.ErrNotLeaseOwner
	}
	return nil
}

// TTL reports the configured hold duration, for surfacing to clients.
func (m *SeatLeaseManager) TTL() time.Duration {
	return m.ttl
}
