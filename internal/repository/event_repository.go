package repository

import (
	"context"
	"time"

	"github.com/DenizBitmez/event-hub/internal/model"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)

	// Transaction methods
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	DecrementCapacity(ctx context.Context, tx pgx.Tx, id int, quantity int) error
	DecrementCapacityIfVersionMatches(ctx context.Context, tx pgx.Tx, id int, quantity int, version uuid.UUID) (bool, error)
	IncrementCapacity(ctx context.Context, tx pgx.Tx, id int, quantity int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{pool: pool}
}

const eventColumns = `id, name, description, price, capacity_remaining, version, starts_at, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Price,
		&event.CapacityRemaining,
		&event.Version,
		&event.StartsAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (name, description, price, capacity_remaining, version, starts_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	if event.Version == uuid.Nil {
		event.Version = uuid.New()
	}

	return scanEvent(r.pool.QueryRow(ctx, query,
		event.Name, event.Description, event.Price,
		event.CapacityRemaining, event.Version, event.StartsAt,
	))
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY starts_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		var event model.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Description,
			&event.Price,
			&event.CapacityRemaining,
			&event.Version,
			&event.StartsAt,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks the event row until the enclosing transaction
// ends; all other FOR UPDATE readers of the same event block behind it.
func (r *EventRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

// FindByIDInTx reads the row without locking it. The optimistic strategy
// pairs this with DecrementCapacityIfVersionMatches.
func (r *EventRepositoryImpl) FindByIDInTx(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

// DecrementCapacity refuses to take capacity below zero; the condition is
// a safety net behind the caller's own capacity check.
func (r *EventRepositoryImpl) DecrementCapacity(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	query := `
		UPDATE events
		SET capacity_remaining = capacity_remaining - $1, version = $2, updated_at = $3
		WHERE id = $4 AND capacity_remaining >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, uuid.New(), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSoldOut
	}

	return nil
}

// DecrementCapacityIfVersionMatches is the optimistic write: it succeeds
// only if no other writer replaced the version token since the read.
// Returns false when zero rows matched; the caller must re-read to tell a
// version conflict from genuine sold-out.
func (r *EventRepositoryImpl) DecrementCapacityIfVersionMatches(ctx context.Context, tx pgx.Tx, id int, quantity int, version uuid.UUID) (bool, error) {
	query := `
		UPDATE events
		SET capacity_remaining = capacity_remaining - $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5 AND capacity_remaining >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, uuid.New(), time.Now().UTC(), id, version)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *EventRepositoryImpl) IncrementCapacity(ctx context.Context, tx pgx.Tx, id int, quantity int) error {
	query := `
		UPDATE events
		SET capacity_remaining = capacity_remaining + $1, version = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := tx.Exec(ctx, query, quantity, uuid.New(), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
