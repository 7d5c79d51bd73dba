package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DenizBitmez/event-hub/internal/handler"
	"github.com/DenizBitmez/event-hub/internal/model"
	"github.com/DenizBitmez/event-hub/internal/service/mocks"
	apperrors "github.com/DenizBitmez/event-hub/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupEventRouter(mockService *mocks.EventServiceMock) *gin.Engine {
	router := newTestRouter()
	handler.NewEventHandler(mockService).RegisterRoutes(router, authAs(7, model.RoleUser))
	return router
}

func TestListEventsHandler(t *testing.T) {
	mockService := mocks.NewEventServiceMock()
	router := setupEventRouter(mockService)

	mockService.On("List", mock.Anything).
		Return([]*model.Event{{ID: 1, Name: "Launch Night", CapacityRemaining: 500}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetEventHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventRouter(mockService)

		mockService.On("GetByID", mock.Anything, 1).
			Return(&model.Event{ID: 1, Name: "Launch Night"}, nil).Once()

		req := httptest.NewRequest("GET", "/api/v1/events/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventRouter(mockService)

		mockService.On("GetByID", mock.Anything, 99).Return(nil, apperrors.ErrEventNotFound).Once()

		req := httptest.NewRequest("GET", "/api/v1/events/99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventRouter(mockService)

		req := httptest.NewRequest("GET", "/api/v1/events/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetByID")
	})
}

func TestCreateEventHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventRouter(mockService)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("model.CreateEventRequest")).
			Return(&model.Event{ID: 1, Name: "Launch Night", CapacityRemaining: 500}, nil).Once()

		req := createJSONHTTPRequest(t, "POST", "/api/v1/events", model.CreateEventRequest{
			Name:     "Launch Night",
			Price:    75,
			Capacity: 500,
			StartsAt: time.Now().Add(48 * time.Hour),
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("BindingError", func(t *testing.T) {
		mockService := mocks.NewEventServiceMock()
		router := setupEventRouter(mockService)

		req := createJSONHTTPRequest(t, "POST", "/api/v1/events", invalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestCreateSeatsHandler(t *testing.T) {
	mockService := mocks.NewEventServiceMock()
	router := setupEventRouter(mockService)

	request := model.CreateSeatsRequest{Seats: []model.SeatSpec{{Section: "A", Row: "1", Number: "1"}}}
	mockService.On("CreateSeats", mock.Anything, 1, request).
		Return([]*model.Seat{{ID: 1, EventID: 1}}, nil).Once()

	req := createJSONHTTPRequest(t, "POST", "/api/v1/events/1/seats", request)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestListSeatsHandler(t *testing.T) {
	mockService := mocks.NewEventServiceMock()
	router := setupEventRouter(mockService)

	mockService.On("ListSeats", mock.Anything, 1).
		Return([]*model.Seat{{ID: 1, EventID: 1, Status: model.SeatStatusAvailable}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/v1/events/1/seats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
