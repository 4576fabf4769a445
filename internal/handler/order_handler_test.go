package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cakery/internal/middleware"
	"cakery/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req *model.OrderRequest) (*model.OrderConfirmation, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderConfirmation), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, customerID uuid.UUID, status string) ([]model.Order, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ConfirmPayment(ctx context.Context, orderID, customerID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, status string) ([]model.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) TransitionStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID, newStatus, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) TransitionPaymentStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actorID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, orderID, newStatus, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) AppendEvent(ctx context.Context, orderID uuid.UUID, req *model.EventRequest, actorID uuid.UUID) (*model.OrderEvent, error) {
	args := m.Called(ctx, orderID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderEvent), args.Error(1)
}

func (m *MockOrderService) ListEvents(ctx context.Context, orderID uuid.UUID) ([]model.OrderEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderEvent), args.Error(1)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureProfile(ctx context.Context, authID, name string) (*model.UserProfile, error) {
	args := m.Called(ctx, authID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockUserService) ListCustomers(ctx context.Context) ([]model.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserProfile), args.Error(1)
}

var testIdentity = middleware.Identity{AuthID: "auth0|tester", Name: "Tester"}

// authedRequest builds a request carrying a verified identity, as the
// authentication middleware would.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), testIdentity))
}

func expectProfile(users *MockUserService) *model.UserProfile {
	profile := &model.UserProfile{
		ID:     uuid.New(),
		AuthID: testIdentity.AuthID,
		Name:   testIdentity.Name,
		Role:   model.RoleCustomer,
	}
	users.On("EnsureProfile", mock.Anything, testIdentity.AuthID, testIdentity.Name).Return(profile, nil)
	return profile
}

func TestOrderHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	confirmation := &model.OrderConfirmation{
		Order: model.Order{
			ID:          uuid.New(),
			OrderNumber: "ORD-TEST1",
			Status:      model.StatusPending,
			TotalAmount: 94,
		},
		PaymentInstructions: "Send 94 to MTN Mobile Money number +256700000000",
	}

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.OrderConfirmation
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"cake_config":{"flavor":"Chocolate","size":"8\""},"delivery_date":"2026-09-15","delivery_address":"12 Bakery Lane","total_amount":94}`,
			mockReturn:     confirmation,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Malformed JSON",
			body:           `{"cake_config":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Price mismatch",
			body:           `{"cake_config":{"flavor":"Chocolate","size":"8\""},"delivery_date":"2026-09-15","delivery_address":"12 Bakery Lane","total_amount":10}`,
			mockError:      model.ErrPriceMismatch,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Internal error",
			body:           `{"cake_config":{"flavor":"Chocolate","size":"8\""},"delivery_date":"2026-09-15","delivery_address":"12 Bakery Lane","total_amount":94}`,
			mockError:      errors.New("database down"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockUsers := new(MockUserService)
			profile := expectProfile(mockUsers)
			h := NewOrderHandler(mockOrders, mockUsers, logger)

			if tt.expectService {
				mockOrders.On("CreateOrder", mock.Anything, profile.ID, mock.AnythingOfType("*model.OrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := authedRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp model.OrderConfirmation
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, confirmation.Order.OrderNumber, resp.Order.OrderNumber)
				assert.NotEmpty(t, resp.PaymentInstructions)
			}
			if !tt.expectService {
				mockOrders.AssertNotCalled(t, "CreateOrder")
			}
		})
	}
}

func TestOrderHandler_Create_Unauthenticated(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	h := NewOrderHandler(mockOrders, mockUsers, zerolog.Nop())

	// No identity in context
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockUsers.AssertNotCalled(t, "EnsureProfile")
}

func TestOrderHandler_List(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	profile := expectProfile(mockUsers)
	h := NewOrderHandler(mockOrders, mockUsers, zerolog.Nop())

	orders := []model.Order{{ID: uuid.New(), Status: model.StatusBaking}}
	mockOrders.On("ListOrders", mock.Anything, profile.ID, "baking").Return(orders, nil)

	req := authedRequest(http.MethodGet, "/api/orders?status=baking", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp["orders"], 1)
}

func TestOrderHandler_List_Empty(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	profile := expectProfile(mockUsers)
	h := NewOrderHandler(mockOrders, mockUsers, zerolog.Nop())

	mockOrders.On("ListOrders", mock.Anything, profile.ID, "").Return(nil, nil)

	req := authedRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// An empty list renders as [], not null
	assert.JSONEq(t, `{"orders":[]}`, rec.Body.String())
}

func TestOrderHandler_ConfirmPayment(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		pathID         string
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			pathID:         orderID.String(),
			mockReturn:     &model.Order{ID: orderID, Status: model.StatusConfirmed, PaymentStatus: model.PaymentPaid},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid ID",
			pathID:         "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Already paid",
			pathID:         orderID.String(),
			mockError:      model.ErrAlreadyPaid,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Someone else's order",
			pathID:         orderID.String(),
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrders := new(MockOrderService)
			mockUsers := new(MockUserService)
			profile := expectProfile(mockUsers)
			h := NewOrderHandler(mockOrders, mockUsers, zerolog.Nop())

			if tt.expectService {
				mockOrders.On("ConfirmPayment", mock.Anything, orderID, profile.ID).
					Return(tt.mockReturn, tt.mockError)
			}

			req := authedRequest(http.MethodPost, "/api/orders/"+tt.pathID+"/confirm-payment", nil)
			req.SetPathValue("id", tt.pathID)
			rec := httptest.NewRecorder()

			h.ConfirmPayment(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp map[string]model.Order
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, model.PaymentPaid, resp["order"].PaymentStatus)
			}
		})
	}
}
