package lease

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLockerLock(t *testing.T) {
	t.Run("AcquireAndRelease", func(t *testing.T) {
		locker := NewEventLocker(NewMemoryStore(), time.Minute)

		release, err := locker.Lock(context.Background(), 1)
		require.NoError(t, err)

		_, err = locker.Lock(context.Background(), 1)
		assert.ErrorIs(t, err, apperrors.ErrEventLockBusy)

		release()

		release2, err := locker.Lock(context.Background(), 1)
		assert.NoError(t, err)
		release2()
	})

	t.Run("EventsLockIndependently", func(t *testing.T) {
		locker := NewEventLocker(NewMemoryStore(), time.Minute)

		release1, err := locker.Lock(context.Background(), 1)
		require.NoError(t, err)
		defer release1()

		release2, err := locker.Lock(context.Background(), 2)
		assert.NoError(t, err)
		release2()
	})

	t.Run("StaleReleaseDoesNotStealTheLock", func(t *testing.T) {
		clock := newFakeClock()
		locker := NewEventLocker(newMemoryStoreAt(clock), 10*time.Second)

		release, err := locker.Lock(context.Background(), 1)
		require.NoError(t, err)

		// The TTL lapses and another process takes the lock.
		clock.Advance(11 * time.Second)
		release2, err := locker.Lock(context.Background(), 1)
		require.NoError(t, err)

		// The first holder's deferred release fires late; the second
		// holder's lock must survive it.
		release()

		_, err = locker.Lock(context.Background(), 1)
		assert.ErrorIs(t, err, apperrors.ErrEventLockBusy)
		release2()
	})
}
