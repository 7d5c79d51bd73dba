package worker

import (
	"context"
	"fmt"

	"github.com/DenizBitmez/event-hub/internal/queue"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SalesRecorder consumes booking events and keeps per-event live sales
// counters in Redis for the admin dashboard. Counters are derived data;
// the tickets table remains authoritative.
type SalesRecorder struct {
	client *redis.Client
	queue  queue.BookingEventQueue
}

func NewSalesRecorder(client *redis.Client, q queue.BookingEventQueue) *SalesRecorder {
	return &SalesRecorder{client: client, queue: q}
}

func SalesKey(eventID int) string {
	return fmt.Sprintf("sales:%d", eventID)
}

func (w *SalesRecorder) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.record(ctx, msg.Data); err != nil {
				logger.WithComponent("sales_recorder").Error("record failed",
					zap.Int("ticket_id", msg.Data.TicketID), zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func (w *SalesRecorder) record(ctx context.Context, event *queue.BookingEvent) error {
	key := SalesKey(event.EventID)

	pipe := w.client.TxPipeline()
	switch event.Type {
	case queue.EventTicketIssued:
		pipe.HIncrBy(ctx, key, "tickets_sold", int64(event.Quantity))
		pipe.HIncrByFloat(ctx, key, "revenue", event.Amount)
		if event.SeatID != nil {
			pipe.HIncrBy(ctx, key, "seats_sold", 1)
		}
	case queue.EventTicketCancelled:
		pipe.HIncrBy(ctx, key, "tickets_sold", int64(-event.Quantity))
		pipe.HIncrBy(ctx, key, "cancellations", 1)
		pipe.HIncrByFloat(ctx, key, "revenue", -event.Amount)
		if event.SeatID != nil {
			pipe.HIncrBy(ctx, key, "seats_sold", -1)
		}
	default:
		logger.WithComponent("sales_recorder").Warn("unknown event type",
			zap.String("type", string(event.Type)))
		return nil
	}

	_, err := pipe.Exec(ctx)
	return err
}
