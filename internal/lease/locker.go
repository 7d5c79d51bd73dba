package lease

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/google/uuid"
)

// EventLocker is a cross-process advisory mutex keyed by event, used by the
// redis_lock capacity strategy. Acquisition never blocks: contenders are
// rejected with ErrEventLockBusy so load sheds instead of piling up. The
// short TTL bounds how long a crashed holder can stall an event.
type EventLocker struct {
	store Store
	ttl   time.Duration
}

func NewEventLocker(store Store, ttl time.Duration) *EventLocker {
	return &EventLocker{store: store, ttl: ttl}
}

func lockKey(eventID int) string {
	return fmt.Sprintf("lock:event:%d", eventID)
}

// Lock acquires the event mutex and returns its release func. Release is
// holder-token verified: if our TTL lapsed and someone else re-acquired the
// lock, the release is a no-op rather than stealing theirs.
func (l *EventLocker) Lock(ctx context.Context, eventID int) (func(), error) {
	holder := uuid.New().String()
	key := lockKey(eventID)

	ok, err := l.store.Acquire(ctx, key, holder, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrEventLockBusy
	}

	release := func() {
		// Background context: the lock must be released even when the
		// request context is already cancelled.
		_, _ = l.store.Release(context.Background(), key, holder)
	}
	return release, nil
}
