package service

import (
	"context"
	"strconv"

	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/repository"
	"github.com/DenizBitmez/event-hub/internal/worker"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LiveCounters are the derived numbers the sales recorder keeps in Redis.
// They can lag the authoritative aggregate by however far the stream
// consumer is behind.
type LiveCounters struct {
	TicketsSold   int     `json:"tickets_sold"`
	SeatsSold     int     `json:"seats_sold"`
	Cancellations int     `json:"cancellations"`
	Revenue       float64 `json:"revenue"`
}

type EventReport struct {
	Event *model.Event             `json:"event"`
	Sales *repository.SalesSummary `json:"sales"`
	Live  *LiveCounters            `json:"live,omitempty"`
}

type ReportService interface {
	EventReport(ctx context.Context, eventID int) (*EventReport, error)
}

type ReportServiceImpl struct {
	events  repository.EventRepository
	tickets repository.TicketRepository
	client  *redis.Client
}

func NewReportService(events repository.EventRepository, tickets repository.TicketRepository, client *redis.Client) ReportService {
	return &ReportServiceImpl{events: events, tickets: tickets, client: client}
}

func (s *ReportServiceImpl) EventReport(ctx context.Context, eventID int) (*EventReport, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sales, err := s.tickets.SalesSummaryByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &EventReport{Event: event, Sales: sales}
	report.Live = s.liveCounters(ctx, eventID)

	return report, nil
}

// liveCounters is best effort; the report stands without it.
func (s *ReportServiceImpl) liveCounters(ctx context.Context, eventID int) *LiveCounters {
	if s.client == nil {
		return nil
	}

	fields, err := s.client.HGetAll(ctx, worker.SalesKey(eventID)).Result()
	if err != nil {
		logger.WithComponent("report").Warn("live counters unavailable",
			zap.Int("event_id", eventID), zap.Error(err))
		return nil
	}
	if len(fields) == 0 {
		return nil
	}

	counters := &LiveCounters{}
	counters.TicketsSold, _ = strconv.Atoi(fields["tickets_sold"])
	counters.SeatsSold, _ = strconv.Atoi(fields["seats_sold"])
	counters.Cancellations, _ = strconv.Atoi(fields["cancellations"])
	counters.Revenue, _ = strconv.ParseFloat(fields["revenue"], 64)
	return counters
}
