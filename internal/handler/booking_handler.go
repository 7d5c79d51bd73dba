package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DenizBitmez/event-hub/internal/middleware"
	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/service"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine, auth, admin gin.HandlerFunc) {
	router := r.Group("/api/v1")
	router.Use(auth)
	{
		router.POST("bookings", h.Book)
		router.POST("bookings/seats/reserve", h.ReserveSeat)
		router.POST("bookings/seats/confirm", h.ConfirmSeat)
		router.GET("tickets", h.MyTickets)
		router.POST("tickets/:id/cancel", admin, h.CancelTicket)
	}
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req model.BookTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.Book(c, middleware.UserID(c), req)
	if err != nil {
		h.handleBookingError(c, err, "Book")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) ReserveSeat(c *gin.Context) {
	var req model.SeatActionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	err := h.service.ReserveSeat(c, middleware.UserID(c), req.EventID, req.SeatID)
	if err != nil {
		h.handleBookingError(c, err, "ReserveSeat")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reserved"})
}

func (h *BookingHandler) ConfirmSeat(c *gin.Context) {
	var req model.SeatActionRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.ConfirmSeat(c, middleware.UserID(c), req.EventID, req.SeatID)
	if err != nil {
		h.handleBookingError(c, err, "ConfirmSeat")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) MyTickets(c *gin.Context) {
	tickets, err := h.service.TicketsByOwner(c, middleware.UserID(c))
	if err != nil {
		h.handleBookingError(c, err, "MyTickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *BookingHandler) CancelTicket(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket id"})
		return
	}

	if err := h.service.Cancel(c, id); err != nil {
		h.handleBookingError(c, err, "CancelTicket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// handleBookingError maps the closed outcome set onto HTTP codes. The
// booking core itself never sees a status code.
func (h *BookingHandler) handleBookingError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrSoldOut):
		log.Warn("Sold out")
		c.JSON(http.StatusConflict, gin.H{"error": "Sold out"})
	case errors.Is(err, apperrors.ErrCapacityConflict):
		log.Warn("Capacity write conflict")
		c.JSON(http.StatusConflict, gin.H{"error": "High demand, please retry"})
	case errors.Is(err, apperrors.ErrEventLockBusy):
		log.Warn("Event busy")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event is busy, try again"})
	case errors.Is(err, apperrors.ErrSeatAlreadyHeld):
		log.Warn("Seat already held")
		c.JSON(http.StatusConflict, gin.H{"error": "Seat is held by another user"})
	case errors.Is(err, apperrors.ErrSeatAlreadySold):
		log.Warn("Seat already sold")
		c.JSON(http.StatusConflict, gin.H{"error": "Seat already sold"})
	case errors.Is(err, apperrors.ErrLeaseExpired):
		log.Warn("Seat hold expired")
		c.JSON(http.StatusGone, gin.H{"error": "Seat hold expired"})
	case errors.Is(err, apperrors.ErrNotLeaseOwner):
		log.Warn("Not hold owner")
		c.JSON(http.StatusForbidden, gin.H{"error": "Seat is held by a different user"})
	case errors.Is(err, apperrors.ErrAlreadyCancelled):
		log.Warn("Already cancelled")
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket already cancelled"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrSeatNotFound), errors.Is(err, apperrors.ErrSeatMismatch):
		log.Warn("Seat not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Seat not found for this event"})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
