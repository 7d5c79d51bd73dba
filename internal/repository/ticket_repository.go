package repository

import (
	"context"
	"time"

	"github.com/DenizBitmez/event-hub/internal/model"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SalesSummary aggregates confirmed sales for one event.
type SalesSummary struct {
	EventID     int     `json:"event_id"`
	TicketsSold int     `json:"tickets_sold"`
	SeatsSold   int     `json:"seats_sold"`
	Revenue     float64 `json:"revenue"`
}

type TicketRepository interface {
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	ListByOwner(ctx context.Context, ownerID int) ([]*model.Ticket, error)
	SalesSummaryByEvent(ctx context.Context, eventID int) (*SalesSummary, error)

	// Transaction methods
	Insert(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.TicketStatus) error
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{pool: pool}
}

const ticketColumns = `id, event_id, owner_id, seat_id, quantity, purchase_price, counted_in_pool, status, booked_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.OwnerID,
		&ticket.SeatID,
		&ticket.Quantity,
		&ticket.PurchasePrice,
		&ticket.CountedInPool,
		&ticket.Status,
		&ticket.BookedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Insert(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (event_id, owner_id, seat_id, quantity, purchase_price, counted_in_pool, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ticketColumns

	return scanTicket(tx.QueryRow(ctx, query,
		ticket.EventID, ticket.OwnerID, ticket.SeatID,
		ticket.Quantity, ticket.PurchasePrice, ticket.CountedInPool, ticket.Status,
	))
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *TicketRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`
	return scanTicket(tx.QueryRow(ctx, query, id))
}

func (r *TicketRepositoryImpl) ListByOwner(ctx context.Context, ownerID int) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE owner_id = $1
		ORDER BY booked_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.OwnerID,
			&ticket.SeatID,
			&ticket.Quantity,
			&ticket.PurchasePrice,
			&ticket.CountedInPool,
			&ticket.Status,
			&ticket.BookedAt,
			&ticket.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.TicketStatus) error {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepositoryImpl) SalesSummaryByEvent(ctx context.Context, eventID int) (*SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0),
		       COUNT(seat_id),
		       COALESCE(SUM(purchase_price * quantity), 0)
		FROM tickets
		WHERE event_id = $1 AND status = $2
	`

	summary := SalesSummary{EventID: eventID}
	err := r.pool.QueryRow(ctx, query, eventID, model.TicketStatusConfirmed).Scan(
		&summary.TicketsSold,
		&summary.SeatsSold,
		&summary.Revenue,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
