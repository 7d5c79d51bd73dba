package repository

import (
	"context"
	"time"

	"github.com/DenizBitmez/event-hub/internal/model"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, eventID int, specs []model.SeatSpec) ([]*model.Seat, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Seat, error)
	FindByID(ctx context.Context, id int) (*model.Seat, error)

	// Transaction methods
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Seat, error)
	MarkSold(ctx context.Context, tx pgx.Tx, id int) error
	Release(ctx context.Context, tx pgx.Tx, id int) error
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{pool: pool}
}

const seatColumns = `id, event_id, section, "row", number, status, created_at, updated_at`

func scanSeat(row pgx.Row) (*model.Seat, error) {
	var seat model.Seat
	err := row.Scan(
		&seat.ID,
		&seat.EventID,
		&seat.Section,
		&seat.Row,
		&seat.Number,
		&seat.Status,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSeatNotFound
		}
		return nil, err
	}
	return &seat, nil
}

func (r *SeatRepositoryImpl) CreateBatch(ctx context.Context, eventID int, specs []model.SeatSpec) ([]*model.Seat, error) {
	if len(specs) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	query := `
		INSERT INTO seats (event_id, section, "row", number, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + seatColumns

	seats := make([]*model.Seat, 0, len(specs))
	for _, spec := range specs {
		seat, err := scanSeat(r.pool.QueryRow(ctx, query,
			eventID, spec.Section, spec.Row, spec.Number, model.SeatStatusAvailable,
		))
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE event_id = $1
		ORDER BY section, "row", number
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)
	for rows.Next() {
		var seat model.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.EventID,
			&seat.Section,
			&seat.Row,
			&seat.Number,
			&seat.Status,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE id = $1
	`
	return scanSeat(r.pool.QueryRow(ctx, query, id))
}

func (r *SeatRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE id = $1
		FOR UPDATE
	`
	return scanSeat(tx.QueryRow(ctx, query, id))
}

// MarkSold flips an available seat to sold. The status condition is the
// final gate against a sale that raced in through another path; when it
// fires the caller reports the seat as already sold.
func (r *SeatRepositoryImpl) MarkSold(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE seats
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, model.SeatStatusSold, time.Now().UTC(), id, model.SeatStatusAvailable)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSeatAlreadySold
	}

	return nil
}

func (r *SeatRepositoryImpl) Release(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE seats
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, model.SeatStatusAvailable, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSeatNotFound
	}

	return nil
}
