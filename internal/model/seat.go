package model

import "time"

// SeatStatus is the durable seat state. A "reserved" seat is represented
// only by its ephemeral lease in Redis, never persisted here.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusSold      SeatStatus = "sold"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusSold:
		return true
	}
	return false
}

// Seat belongs to exactly one event. Available -> Sold happens at most
// once through booking; cancellation is the only transition back.
type Seat struct {
	ID        int        `json:"id" db:"id"`
	EventID   int        `json:"event_id" db:"event_id"`
	Section   string     `json:"section" db:"section"`
	Row       string     `json:"row" db:"row"`
	Number    string     `json:"number" db:"number"`
	Status    SeatStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}

type CreateSeatsRequest struct {
	Seats []SeatSpec `json:"seats" binding:"required,min=1,dive"`
}

type SeatSpec struct {
	Section string `json:"section" binding:"required"`
	Row     string `json:"row" binding:"required"`
	Number  string `json:"number" binding:"required"`
}
