package apperrors

import "errors"

// Business rejections: expected outcomes of correct concurrent operation,
// not defects. Handlers map these to 4xx responses.
var (
	ErrSoldOut          = errors.New("sold out")
	ErrCapacityConflict = errors.New("capacity write conflict")
	ErrEventLockBusy    = errors.New("event is busy")
	ErrSeatAlreadyHeld  = errors.New("seat is held by another user")
	ErrLeaseExpired     = errors.New("seat hold expired")
	ErrNotLeaseOwner    = errors.New("seat is held by a different user")
	ErrSeatAlreadySold  = errors.New("seat already sold")
	ErrAlreadyCancelled = errors.New("ticket already cancelled")
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrSeatNotFound   = errors.New("seat not found")
	ErrSeatMismatch   = errors.New("seat does not belong to this event")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
