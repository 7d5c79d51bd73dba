package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DenizBitmez/event-hub/internal/handler"
	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/repository"
	"github.com/DenizBitmez/event-hub/internal/service"
	"github.com/DenizBitmez/event-hub/internal/service/mocks"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAdminRouter(mockService *mocks.ReportServiceMock) *gin.Engine {
	router := newTestRouter()
	handler.NewAdminHandler(mockService).RegisterRoutes(router, authAs(1, model.RoleAdmin), allowAll())
	return router
}

func TestEventReportHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewReportServiceMock()
		router := setupAdminRouter(mockService)

		mockService.On("EventReport", mock.Anything, 1).Return(&service.EventReport{
			Event: &model.Event{ID: 1, Name: "Launch Night", CapacityRemaining: 480},
			Sales: &repository.SalesSummary{EventID: 1, TicketsSold: 20, Revenue: 1500},
		}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/admin/reports/events/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "tickets_sold")
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := mocks.NewReportServiceMock()
		router := setupAdminRouter(mockService)

		mockService.On("EventReport", mock.Anything, 99).Return(nil, apperrors.ErrEventNotFound).Once()

		req := httptest.NewRequest("GET", "/api/v1/admin/reports/events/99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := mocks.NewReportServiceMock()
		router := setupAdminRouter(mockService)

		req := httptest.NewRequest("GET", "/api/v1/admin/reports/events/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "EventReport")
	})
}
