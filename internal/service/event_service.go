package service

import (
	"context"

	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/repository"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	CreateSeats(ctx context.Context, eventID int, req model.CreateSeatsRequest) ([]*model.Seat, error)
	ListSeats(ctx context.Context, eventID int) ([]*model.Seat, error)
}

type EventServiceImpl struct {
	events repository.EventRepository
	seats  repository.SeatRepository
}

func NewEventService(events repository.EventRepository, seats repository.SeatRepository) EventService {
	return &EventServiceImpl{events: events, seats: seats}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.events.List(ctx)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.Capacity < 1 {
		return nil, apperrors.ErrInvalidInput
	}

	return s.events.Create(ctx, &model.Event{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		CapacityRemaining: req.Capacity,
		StartsAt:          req.StartsAt,
	})
}

func (s *EventServiceImpl) CreateSeats(ctx context.Context, eventID int, req model.CreateSeatsRequest) ([]*model.Seat, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.seats.CreateBatch(ctx, eventID, req.Seats)
}

func (s *EventServiceImpl) ListSeats(ctx context.Context, eventID int) ([]*model.Seat, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.seats.ListByEventID(ctx, eventID)
}
