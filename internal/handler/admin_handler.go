package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DenizBitmez/event-hub/internal/service"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"
	"github.com/DenizBitmez/event-hub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	reports service.ReportService
}

func NewAdminHandler(reports service.ReportService) *AdminHandler {
	return &AdminHandler{reports: reports}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine, auth, admin gin.HandlerFunc) {
	router := r.Group("/api/v1/admin")
	router.Use(auth, admin)
	{
		router.GET("reports/events/:id", h.EventReport)
	}
}

func (h *AdminHandler) EventReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	report, err := h.reports.EventReport(c, id)
	if err != nil {
		log := logger.WithComponent("handler").With(zap.String("operation", "EventReport"), zap.Error(err))
		if errors.Is(err, apperrors.ErrEventNotFound) {
			log.Warn("Event not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}
