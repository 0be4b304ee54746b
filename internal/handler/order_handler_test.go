package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sellora/internal/model"
	"sellora/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) List(ctx context.Context, buyerID string, status model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, buyerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByConfirmationNumber(ctx context.Context, code string) (*model.Order, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, draft *service.OrderDraft) (*model.Order, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string) (*model.Order, error) {
	args := m.Called(ctx, id, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) TotalSpent(ctx context.Context, buyerID string) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func orderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/orders", h.List)
	r.Get("/api/orders/{id}", h.Get)
	r.Patch("/api/orders/{id}/status", h.UpdateStatus)
	r.Put("/api/orders/{id}/tracking", h.UpdateTracking)
	r.Post("/api/orders/{id}/delivered", h.MarkDelivered)
	return r
}

func TestOrderHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Returns the buyer's orders", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		orders := []model.Order{
			{ID: uuid.New(), BuyerID: "buyer-1", Status: model.StatusConfirmed, OrderDate: time.Now()},
		}
		mockService.On("List", mock.Anything, "buyer-1", model.OrderStatus("")).Return(orders, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req = asUser(req, "buyer-1", "Priya Sharma")
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result []model.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Len(t, result, 1)
	})

	t.Run("Status filter passed through", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		mockService.On("List", mock.Anything, "buyer-1", model.StatusShipped).Return([]model.Order{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=shipped", nil)
		req = asUser(req, "buyer-1", "Priya Sharma")
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("Unknown status filter rejected", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=cancelled", nil)
		req = asUser(req, "buyer-1", "Priya Sharma")
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "List")
	})

	t.Run("Missing identity", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOrderHandler_Get(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("By UUID", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		order := &model.Order{ID: id, Status: model.StatusConfirmed}
		mockService.On("GetByID", mock.Anything, id).Return(order, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id.String(), nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("By confirmation number", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		order := &model.Order{ID: uuid.New(), ConfirmationNumber: "SELL-260315-A1B2C3D4"}
		mockService.On("GetByConfirmationNumber", mock.Anything, "SELL-260315-A1B2C3D4").Return(order, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/SELL-260315-A1B2C3D4", nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unrecognised reference maps to 404", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/not-an-order", nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertNotCalled(t, "GetByID")
		mockService.AssertNotCalled(t, "GetByConfirmationNumber")
	})

	t.Run("Order missing maps to 404", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		mockService.On("GetByID", mock.Anything, id).Return(nil, model.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id.String(), nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		updated := &model.Order{ID: id, Status: model.StatusProcessing}
		mockService.On("UpdateStatus", mock.Anything, id, model.StatusProcessing).Return(updated, nil)

		body := []byte(`{"status":"processing"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+id.String()+"/status", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Illegal transition maps to 409", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		mockService.On("UpdateStatus", mock.Anything, id, model.StatusProcessing).
			Return(nil, &model.InvalidTransitionError{From: model.StatusDelivered, To: model.StatusProcessing})

		body := []byte(`{"status":"processing"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+id.String()+"/status", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInvalidTransition, resp.Code)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		body := []byte(`{"status":"cancelled"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+id.String()+"/status", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateStatus")
	})
}

func TestOrderHandler_UpdateTracking(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		tracking := "TRK-123"
		updated := &model.Order{ID: id, Status: model.StatusShipped, TrackingNumber: &tracking}
		mockService.On("UpdateTracking", mock.Anything, id, "TRK-123").Return(updated, nil)

		body := []byte(`{"trackingNumber":" TRK-123 "}`)
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+id.String()+"/tracking", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result model.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, model.StatusShipped, result.Status)
	})

	t.Run("Blank tracking number rejected", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		body := []byte(`{"trackingNumber":"  "}`)
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+id.String()+"/tracking", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateTracking")
	})
}

func TestOrderHandler_MarkDelivered(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		id := uuid.New()
		deliveredAt := time.Now()
		updated := &model.Order{ID: id, Status: model.StatusDelivered, ActualDeliveryDate: &deliveredAt}
		mockService.On("MarkDelivered", mock.Anything, id).Return(updated, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/orders/"+id.String()+"/delivered", nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result model.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, model.StatusDelivered, result.Status)
		assert.NotNil(t, result.ActualDeliveryDate)
	})

	t.Run("Invalid order ID maps to 404", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/orders/nope/delivered", nil)
		rec := httptest.NewRecorder()
		orderRouter(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertNotCalled(t, "MarkDelivered")
	})
}
