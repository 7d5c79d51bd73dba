package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/service"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.ListEvents)
		router.GET("events/:id", h.GetEvent)
		router.GET("events/:id/seats", h.ListSeats)
		router.POST("events", auth, h.CreateEvent)
		router.POST("events/:id/seats", auth, h.CreateSeats)
	}
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleEventError(c, err, "ListEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.service.GetByID(c, id)
	if err != nil {
		h.handleEventError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Create(c, req)
	if err != nil {
		h.handleEventError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) CreateSeats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req model.CreateSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	seats, err := h.service.CreateSeats(c, id, req)
	if err != nil {
		h.handleEventError(c, err, "CreateSeats")
		return
	}
	c.JSON(http.StatusCreated, seats)
}

func (h *EventHandler) ListSeats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	seats, err := h.service.ListSeats(c, id)
	if err != nil {
		h.handleEventError(c, err, "ListSeats")
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
