package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cakery/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_ListOrders(t *testing.T) {
	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	orders := []model.Order{
		{ID: uuid.New(), Status: model.StatusBaking, Urgency: model.UrgencyToday},
	}
	mockOrders.On("ListAllOrders", mock.Anything, "baking").Return(orders, nil)

	req := authedRequest(http.MethodGet, "/api/admin/orders?status=baking", nil)
	rec := httptest.NewRecorder()

	h.ListOrders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["data"], 1)
	assert.Equal(t, model.UrgencyToday, resp["data"][0].Urgency)
}

func TestAdminHandler_GetOrder_NotFound(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockUserService), zerolog.Nop())

	mockOrders.On("GetOrder", mock.Anything, orderID).Return(nil, model.ErrOrderNotFound)

	req := authedRequest(http.MethodGet, "/api/admin/orders/"+orderID.String(), nil)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.GetOrder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_UpdateOrder_Status(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	actor := expectProfile(mockUsers)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	updated := &model.Order{ID: orderID, Status: model.StatusBaking, PaymentStatus: model.PaymentPaid}
	mockOrders.On("TransitionStatus", mock.Anything, orderID, "baking", actor.ID).Return(updated, nil)

	req := authedRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(),
		bytes.NewBufferString(`{"status":"baking"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockOrders.AssertNotCalled(t, "TransitionPaymentStatus")

	var resp map[string]model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.StatusBaking, resp["data"].Status)
}

func TestAdminHandler_UpdateOrder_Both(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	actor := expectProfile(mockUsers)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	afterStatus := &model.Order{ID: orderID, Status: model.StatusCancelled, PaymentStatus: model.PaymentPaid}
	afterPayment := &model.Order{ID: orderID, Status: model.StatusCancelled, PaymentStatus: model.PaymentRefunded}

	mockOrders.On("TransitionStatus", mock.Anything, orderID, "cancelled", actor.ID).Return(afterStatus, nil)
	mockOrders.On("TransitionPaymentStatus", mock.Anything, orderID, "refunded", actor.ID).Return(afterPayment, nil)

	req := authedRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(),
		bytes.NewBufferString(`{"status":"cancelled","payment_status":"refunded"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.PaymentRefunded, resp["data"].PaymentStatus)
}

func TestAdminHandler_UpdateOrder_NoFields(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	expectProfile(mockUsers)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	req := authedRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(), bytes.NewBufferString(`{}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockOrders.AssertNotCalled(t, "TransitionStatus")
	mockOrders.AssertNotCalled(t, "TransitionPaymentStatus")
}

func TestAdminHandler_UpdateOrder_TerminalConflict(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	actor := expectProfile(mockUsers)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	mockOrders.On("TransitionStatus", mock.Anything, orderID, "baking", actor.ID).
		Return(nil, model.ErrTerminalStatus)

	req := authedRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(),
		bytes.NewBufferString(`{"status":"baking"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateOrder(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminHandler_AppendEvent(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	mockUsers := new(MockUserService)
	actor := expectProfile(mockUsers)
	h := NewAdminHandler(mockOrders, mockUsers, zerolog.Nop())

	event := &model.OrderEvent{ID: uuid.New(), OrderID: orderID, EventType: "note", Description: "Sketch approved"}
	mockOrders.On("AppendEvent", mock.Anything, orderID, mock.AnythingOfType("*model.EventRequest"), actor.ID).
		Return(event, nil)

	req := authedRequest(http.MethodPost, "/api/admin/orders/"+orderID.String()+"/events",
		bytes.NewBufferString(`{"event_type":"note","description":"Sketch approved"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.AppendEvent(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]model.OrderEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "note", resp["data"].EventType)
}

func TestAdminHandler_ListEvents_Empty(t *testing.T) {
	orderID := uuid.New()

	mockOrders := new(MockOrderService)
	h := NewAdminHandler(mockOrders, new(MockUserService), zerolog.Nop())

	mockOrders.On("ListEvents", mock.Anything, orderID).Return(nil, nil)

	req := authedRequest(http.MethodGet, "/api/admin/orders/"+orderID.String()+"/events", nil)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.ListEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestAdminHandler_ListCustomers(t *testing.T) {
	mockUsers := new(MockUserService)
	h := NewAdminHandler(new(MockOrderService), mockUsers, zerolog.Nop())

	customers := []model.UserProfile{{ID: uuid.New(), Name: "Ada", Role: model.RoleCustomer}}
	mockUsers.On("ListCustomers", mock.Anything).Return(customers, nil)

	req := authedRequest(http.MethodGet, "/api/admin/customers", nil)
	rec := httptest.NewRecorder()

	h.ListCustomers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]model.UserProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["data"], 1)
	assert.Equal(t, "Ada", resp["data"][0].Name)
}
