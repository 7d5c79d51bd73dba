package model

import "time"

type TicketStatus string

const (
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusConfirmed, TicketStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo restricts status changes to confirmed -> cancelled.
// Cancelled is terminal: tickets are never deleted, so the audit history
// of a pool survives compensation.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	return s == TicketStatusConfirmed && target == TicketStatusCancelled
}

// Ticket is the durable proof of sale, inserted in the same transaction
// that decrements capacity or flips a seat to sold.
type Ticket struct {
	ID            int          `json:"id" db:"id"`
	EventID       int          `json:"event_id" db:"event_id"`
	OwnerID       int          `json:"owner_id" db:"owner_id"`
	SeatID        *int         `json:"seat_id,omitempty" db:"seat_id"`
	Quantity      int          `json:"quantity" db:"quantity"`
	PurchasePrice float64      `json:"purchase_price" db:"purchase_price"`
	// CountedInPool records whether issuing this ticket debited the
	// event's capacity pool. Cancellation credits the pool only when it
	// is set, keeping the sell/cancel round trip symmetric.
	CountedInPool bool         `json:"-" db:"counted_in_pool"`
	Status        TicketStatus `json:"status" db:"status"`
	BookedAt      time.Time    `json:"booked_at" db:"booked_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

func (t *Ticket) IsSeatTicket() bool {
	return t.SeatID != nil
}

type BookTicketRequest struct {
	EventID  int `json:"event_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type SeatActionRequest struct {
	EventID int `json:"event_id" binding:"required"`
	SeatID  int `json:"seat_id" binding:"required"`
}

// BookingResult is the definitive outcome returned to the HTTP layer on a
// successful booking.
type BookingResult struct {
	TicketID          int     `json:"ticket_id"`
	EventID           int     `json:"event_id"`
	SeatID            *int    `json:"seat_id,omitempty"`
	Quantity          int     `json:"quantity"`
	TotalPrice        float64 `json:"total_price"`
	RemainingCapacity int     `json:"remaining_capacity"`
}
