package queue

import (
	"context"
	"time"
)

type BookingEventType string

const (
	EventTicketIssued    BookingEventType = "ticket_issued"
	EventTicketCancelled BookingEventType = "ticket_cancelled"
)

// BookingEvent is the fact published after a booking transaction commits.
// Consumers maintain derived data (live sales counters); the tickets table
// stays the source of truth.
type BookingEvent struct {
	Type     BookingEventType `json:"type"`
	TicketID int              `json:"ticket_id"`
	EventID  int              `json:"event_id"`
	OwnerID  int              `json:"owner_id"`
	SeatID   *int             `json:"seat_id,omitempty"`
	Quantity int              `json:"quantity"`
	Amount   float64          `json:"amount"`
	At       time.Time        `json:"at"`
}

type Delivery struct {
	Data *BookingEvent
	Ack  func()
	Nack func(requeue bool)
}

type BookingEventQueue interface {
	Publish(ctx context.Context, event *BookingEvent) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryBookingEventQueue backs the queue with a buffered channel. Used in
// tests and as a fallback when Redis Streams are unavailable.
type MemoryBookingEventQueue struct {
	ch chan *BookingEvent
}

func NewMemoryBookingEventQueue(bufferSize int) BookingEventQueue {
	return &MemoryBookingEventQueue{ch: make(chan *BookingEvent, bufferSize)}
}

func (q *MemoryBookingEventQueue) Publish(ctx context.Context, event *BookingEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryBookingEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event
						}
					},
				}
			}
		}
	}()

	return out, nil
}
