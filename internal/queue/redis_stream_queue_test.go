package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStreamQueueCreatesConsumerGroup(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").SetVal("OK")

	q, err := NewRedisStreamQueue(client, "recorder-1", nil)

	require.NoError(t, err)
	assert.NotNil(t, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisStreamQueueToleratesExistingGroup(t *testing.T) {
	// The BUSYGROUP error is matched by message text.
	client, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").
		SetErr(busyGroupError{})

	q, err := NewRedisStreamQueue(client, "recorder-1", nil)

	require.NoError(t, err)
	assert.NotNil(t, q)
}

type busyGroupError struct{}

func (busyGroupError) Error() string {
	return "BUSYGROUP Consumer Group name already exists"
}

func TestRedisStreamQueuePublish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").SetVal("OK")

	q, err := NewRedisStreamQueue(client, "recorder-1", nil)
	require.NoError(t, err)

	event := &BookingEvent{
		Type:     EventTicketIssued,
		TicketID: 1,
		EventID:  2,
		OwnerID:  3,
		Quantity: 2,
		Amount:   200,
		At:       time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		ID:     "*",
		Values: map[string]interface{}{"event": string(payload)},
	}).SetVal("1-1")

	require.NoError(t, q.Publish(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}
