package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is one sellable pool of admission tokens. CapacityRemaining only
// decreases, except when a cancellation restores it. Version is an opaque
// change token replaced on every successful mutation; the optimistic
// capacity strategy uses it to detect lost write races.
type Event struct {
	ID                int       `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       *string   `json:"description,omitempty" db:"description"`
	Price             float64   `json:"price" db:"price"`
	CapacityRemaining int       `json:"capacity_remaining" db:"capacity_remaining"`
	Version           uuid.UUID `json:"-" db:"version"`
	StartsAt          time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// HasCapacity reports whether quantity tickets can still be issued.
func (e *Event) HasCapacity(quantity int) bool {
	return e.CapacityRemaining >= quantity
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description *string   `json:"description"`
	Price       float64   `json:"price" binding:"required,gt=0"`
	Capacity    int       `json:"capacity" binding:"required,gt=0"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
}
