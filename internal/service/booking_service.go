package service

import (
	"context"
	"time"

	"github.com/DenizBitmez/event-hub/internal/guard"
	"github.com/DenizBitmez/event-hub/internal/lease"
	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/queue"
	"github.com/DenizBitmez/event-hub/internal/repository"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingService interface {
	// Book issues quantity generic tickets against the event's capacity
	// pool. The decrement and the ticket insert commit atomically.
	Book(ctx context.Context, ownerID int, req model.BookTicketRequest) (*model.BookingResult, error)
	// ReserveSeat places a TTL-bounded exclusive hold on a specific seat.
	ReserveSeat(ctx context.Context, holderID, eventID, seatID int) error
	// ConfirmSeat turns a live hold into a durable sale.
	ConfirmSeat(ctx context.Context, holderID, eventID, seatID int) (*model.BookingResult, error)
	// Cancel reverses a confirmed booking, restoring capacity (and the
	// seat, for seat tickets).
	Cancel(ctx context.Context, ticketID int) error
	TicketsByOwner(ctx context.Context, ownerID int) ([]*model.Ticket, error)
}

type BookingServiceImpl struct {
	txm     repository.TxManager
	guard   guard.CapacityGuard
	leases  *lease.SeatLeaseManager
	events  repository.EventRepository
	seats   repository.SeatRepository
	tickets repository.TicketRepository
	queue   queue.BookingEventQueue
}

func NewBookingService(
	txm repository.TxManager,
	capacityGuard guard.CapacityGuard,
	leases *lease.SeatLeaseManager,
	events repository.EventRepository,
	seats repository.SeatRepository,
	tickets repository.TicketRepository,
	eventQueue queue.BookingEventQueue,
) BookingService {
	return &BookingServiceImpl{
		txm:     txm,
		guard:   capacityGuard,
		leases:  leases,
		events:  events,
		seats:   seats,
		tickets: tickets,
		queue:   eventQueue,
	}
}

func (s *BookingServiceImpl) Book(ctx context.Context, ownerID int, req model.BookTicketRequest) (*model.BookingResult, error) {
	if req.Quantity < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	var ticket *model.Ticket
	var price float64

	remaining, err := s.guard.Reserve(ctx, req.EventID, req.Quantity, func(ctx context.Context, tx pgx.Tx, event *model.Event) error {
		price = event.Price
		created, err := s.tickets.Insert(ctx, tx, &model.Ticket{
			EventID:       event.ID,
			OwnerID:       ownerID,
			Quantity:      req.Quantity,
			PurchasePrice: event.Price,
			CountedInPool: true,
			Status:        model.TicketStatusConfirmed,
		})
		if err != nil {
			return err
		}
		ticket = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(&queue.BookingEvent{
		Type:     queue.EventTicketIssued,
		TicketID: ticket.ID,
		EventID:  ticket.EventID,
		OwnerID:  ownerID,
		Quantity: req.Quantity,
		Amount:   price * float64(req.Quantity),
		At:       time.Now().UTC(),
	})

	return &model.BookingResult{
		TicketID:          ticket.ID,
		EventID:           ticket.EventID,
		Quantity:          req.Quantity,
		TotalPrice:        price * float64(req.Quantity),
		RemainingCapacity: remaining,
	}, nil
}

func (s *BookingServiceImpl) ReserveSeat(ctx context.Context, holderID, eventID, seatID int) error {
	// Durable pre-check: a sold seat is gone for good, so reject before
	// handing out a hold that can never be confirmed.
	seat, err := s.seats.FindByID(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.EventID != eventID {
		return apperrors.ErrSeatMismatch
	}
	if !seat.IsAvailable() {
		return apperrors.ErrSeatAlreadySold
	}

	return s.leases.Reserve(ctx, eventID, seatID, holderID)
}

func (s *BookingServiceImpl) ConfirmSeat(ctx context.Context, holderID, eventID, seatID int) (*model.BookingResult, error) {
	if err := s.leases.Confirm(ctx, eventID, seatID, holderID); err != nil {
		return nil, err
	}

	var ticket *model.Ticket
	var price float64
	var remaining int

	err := s.txm.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		seat, err := s.seats.FindByIDForUpdate(ctx, tx, seatID)
		if err != nil {
			return err
		}
		if seat.EventID != eventID {
			return apperrors.ErrSeatMismatch
		}
		if !seat.IsAvailable() {
			// The lease said this holder owns the seat, yet it was sold
			// through another path. Integrity anomaly, not a crash.
			logger.WithComponent("booking").Error("seat sold under a live lease",
				zap.Int("event_id", eventID), zap.Int("seat_id", seatID), zap.Int("holder_id", holderID))
			return apperrors.ErrSeatAlreadySold
		}

		if err := s.seats.MarkSold(ctx, tx, seatID); err != nil {
			return err
		}

		event, err := s.events.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}
		price = event.Price

		// Aggregate capacity tracks seat sales for reporting symmetry;
		// the seat row itself is the exclusivity authority, so an empty
		// pool does not block the sale. The ticket records whether the
		// pool was debited so cancellation credits it back symmetrically.
		counted := event.CapacityRemaining > 0
		if counted {
			if err := s.events.DecrementCapacity(ctx, tx, eventID, 1); err != nil {
				return err
			}
			remaining = event.CapacityRemaining - 1
		}

		created, err := s.tickets.Insert(ctx, tx, &model.Ticket{
			EventID:       eventID,
			OwnerID:       holderID,
			SeatID:        &seatID,
			Quantity:      1,
			PurchasePrice: event.Price,
			CountedInPool: counted,
			Status:        model.TicketStatusConfirmed,
		})
		if err != nil {
			return err
		}
		ticket = created
		return nil
	})
	if err != nil {
		// The lease stays put: if the durable sale failed transiently, a
		// retried confirm can still succeed before the TTL runs out.
		return nil, err
	}

	s.publish(&queue.BookingEvent{
		Type:     queue.EventTicketIssued,
		TicketID: ticket.ID,
		EventID:  eventID,
		OwnerID:  holderID,
		SeatID:   &seatID,
		Quantity: 1,
		Amount:   price,
		At:       time.Now().UTC(),
	})

	return &model.BookingResult{
		TicketID:          ticket.ID,
		EventID:           eventID,
		SeatID:            &seatID,
		Quantity:          1,
		TotalPrice:        price,
		RemainingCapacity: remaining,
	}, nil
}

// Cancel compensates a confirmed booking in one transaction: ticket flip,
// capacity restore under the event row lock, and seat release for seat
// tickets. Restoring both sides keeps the pool and the seat map consistent;
// restoring only capacity would leak sold seats forever.
func (s *BookingServiceImpl) Cancel(ctx context.Context, ticketID int) error {
	var cancelled *model.Ticket

	err := s.txm.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ticket, err := s.tickets.FindByIDForUpdate(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status == model.TicketStatusCancelled {
			return apperrors.ErrAlreadyCancelled
		}
		if !ticket.Status.CanTransitionTo(model.TicketStatusCancelled) {
			return apperrors.ErrInvalidInput
		}

		if err := s.tickets.UpdateStatus(ctx, tx, ticketID, model.TicketStatusCancelled); err != nil {
			return err
		}

		// Same exclusivity discipline as booking: the event row lock keeps
		// the restore from racing a concurrent decrement. A ticket that
		// never debited the pool must not credit it on the way back.
		if ticket.CountedInPool {
			if _, err := s.events.FindByIDForUpdate(ctx, tx, ticket.EventID); err != nil {
				return err
			}
			if err := s.events.IncrementCapacity(ctx, tx, ticket.EventID, ticket.Quantity); err != nil {
				return err
			}
		}

		if ticket.IsSeatTicket() {
			if err := s.seats.Release(ctx, tx, *ticket.SeatID); err != nil {
				return err
			}
		}

		cancelled = ticket
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(&queue.BookingEvent{
		Type:     queue.EventTicketCancelled,
		TicketID: cancelled.ID,
		EventID:  cancelled.EventID,
		OwnerID:  cancelled.OwnerID,
		SeatID:   cancelled.SeatID,
		Quantity: cancelled.Quantity,
		Amount:   cancelled.PurchasePrice * float64(cancelled.Quantity),
		At:       time.Now().UTC(),
	})

	return nil
}

func (s *BookingServiceImpl) TicketsByOwner(ctx context.Context, ownerID int) ([]*model.Ticket, error) {
	return s.tickets.ListByOwner(ctx, ownerID)
}

// publish is best effort: the booking already committed, so a queue outage
// must not fail the request. context.Background keeps the publish alive
// when the caller has already gone away.
func (s *BookingServiceImpl) publish(event *queue.BookingEvent) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Publish(context.Background(), event); err != nil {
		logger.WithComponent("booking").Warn("publish booking event failed",
			zap.Int("ticket_id", event.TicketID), zap.Error(err))
	}
}
