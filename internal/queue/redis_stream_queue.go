package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "bookings:stream"
	ConsumerGroupName  = "sales-recorders"
	ConsumerNamePrefix = "recorder"
)

// RedisStreamQueueConfig tunes timeouts and retries; zero values fall back
// to defaults.
type RedisStreamQueueConfig struct {
	ClaimMinIdleTime   time.Duration // a pending entry older than this is reclaimed via XAUTOCLAIM
	MaxRetryCount      int           // past this delivery count the entry is dropped as poison
	ReadGroupBlockTime time.Duration // XReadGroup block duration
}

func defaultStreamConfig() RedisStreamQueueConfig {
	return RedisStreamQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

type RedisStreamQueue struct {
	client       *redis.Client
	streamKey    string
	groupName    string
	consumerName string
	cfg          RedisStreamQueueConfig
}

// NewRedisStreamQueue builds the Redis Stream backed BookingEventQueue and
// ensures the consumer group exists. config may be nil.
func NewRedisStreamQueue(client *redis.Client, consumerID string, config *RedisStreamQueueConfig) (BookingEventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}

	q := &RedisStreamQueue{
		client:       client,
		streamKey:    StreamKey,
		groupName:    ConsumerGroupName,
		consumerName: fmt.Sprintf("%s:%s", ConsumerNamePrefix, consumerID),
		cfg:          cfg,
	}
	if err := q.ensureConsumerGroup(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamQueue) ensureConsumerGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (q *RedisStreamQueue) Publish(ctx context.Context, event *BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		ID:     "*",
		Values: map[string]interface{}{"event": string(payload)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.runAutoClaim(ctx, out)
		q.runReadLoop(ctx, out)
	}()
	return out, nil
}

// runReadLoop delivers fresh entries; entries this consumer already took
// but never acked come back through XAUTOCLAIM once they go idle.
func (q *RedisStreamQueue) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

func (q *RedisStreamQueue) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: q.consumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if err == redis.Nil {
		return
	}
	if err != nil {
		logger.WithComponent("queue").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			q.deliver(ctx, out, msg)
		}
	}
}

// runAutoClaim periodically takes over entries other consumers left
// pending, dropping poison entries once their retry budget is spent.
func (q *RedisStreamQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: q.consumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && err != redis.Nil {
				logger.WithComponent("queue").Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if q.isPoison(ctx, msg.ID) {
					continue
				}
				q.deliver(ctx, out, msg)
			}
		}
	}
}

func (q *RedisStreamQueue) isPoison(ctx context.Context, messageID string) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return false
	}
	if int(pending[0].RetryCount) < q.cfg.MaxRetryCount {
		return false
	}

	logger.WithComponent("queue").Warn("discarding poison entry",
		zap.String("message_id", messageID),
		zap.Int64("retries", pending[0].RetryCount))
	_ = q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
	return true
}

func (q *RedisStreamQueue) deliver(ctx context.Context, out chan<- Delivery, msg redis.XMessage) {
	payload, ok := msg.Values["event"].(string)
	if !ok {
		logger.WithComponent("queue").Warn("entry missing event field", zap.String("message_id", msg.ID))
		return
	}
	var event BookingEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.WithComponent("queue").Warn("unmarshal booking event failed", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}

	msgID := msg.ID
	d := Delivery{
		Data: &event,
		Ack: func() {
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				logger.WithComponent("queue").Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// Leave the entry in the PEL; XAUTOCLAIM picks it up after
				// ClaimMinIdleTime, which acts as the retry delay.
				return
			}
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				logger.WithComponent("queue").Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}

	select {
	case out <- d:
	case <-ctx.Done():
	}
}
