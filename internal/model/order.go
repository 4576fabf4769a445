package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks where an order sits in the production lifecycle.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusBaking         OrderStatus = "baking"
	StatusDecorating     OrderStatus = "decorating"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusRank gives each forward status its position in the intended
// progression. cancelled has no rank; it is reachable from any
// non-terminal status.
var statusRank = map[OrderStatus]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusBaking:         3,
	StatusDecorating:     4,
	StatusReady:          5,
	StatusOutForDelivery: 6,
	StatusDelivered:      7,
}

// ParseOrderStatus validates enum membership of a raw status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := statusRank[status]; ok {
		return status, nil
	}
	if status == StatusCancelled {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further status transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanFollow reports whether next is a legal successor of s under the strict
// forward-only policy: either the immediately following status, or
// cancellation of a non-terminal order. The permissive default policy does
// not consult this.
func (s OrderStatus) CanFollow(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] == statusRank[s]+1
}

// PaymentStatus tracks the independent payment axis of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// ParsePaymentStatus validates enum membership of a raw payment status.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch status := PaymentStatus(s); status {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Urgency classifies how close an order's delivery date is, for admin triage.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyTomorrow Urgency = "tomorrow"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyNormal   Urgency = "normal"
)

// OrderUrgency computes the urgency classification from the whole-day
// difference between the delivery date and now. The thresholds are relied on
// for admin prioritisation and must not drift.
func OrderUrgency(deliveryDate, now time.Time) Urgency {
	delivery := time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysDiff := int(delivery.Sub(today).Hours() / 24)

	switch {
	case daysDiff < 0:
		return UrgencyOverdue
	case daysDiff == 0:
		return UrgencyToday
	case daysDiff == 1:
		return UrgencyTomorrow
	case daysDiff <= 2:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// Order is a customer's commitment to purchase one cake configuration for a
// specified delivery date, tracked through the status and payment-status
// lifecycle. Orders are never physically deleted; cancellation is a terminal
// status, not removal.
type Order struct {
	ID                  uuid.UUID         `json:"id"`
	OrderNumber         string            `json:"order_number"`
	CustomerID          uuid.UUID         `json:"customer_id"`
	CakeConfig          CakeConfiguration `json:"cake_config"`
	TotalAmount         int64             `json:"total_amount"`
	Status              OrderStatus       `json:"status"`
	PaymentStatus       PaymentStatus     `json:"payment_status"`
	DeliveryDate        time.Time         `json:"delivery_date"`
	DeliveryTime        string            `json:"delivery_time,omitempty"`
	DeliveryAddress     string            `json:"delivery_address"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`

	// Urgency is derived from DeliveryDate at read time; it is never stored.
	Urgency Urgency `json:"urgency,omitempty"`
	// Events is populated on reads that embed the order's history.
	Events []OrderEvent `json:"events,omitempty"`
}

// NewOrderNumber derives the short human-facing order code from the creation
// timestamp.
func NewOrderNumber(createdAt time.Time) string {
	return "ORD-" + strings.ToUpper(strconv.FormatInt(createdAt.UnixMilli(), 36))
}

// Event types written by the lifecycle operations. Status and payment-status
// changes use the literal "Status changed to {s}" / "Payment status changed
// to {p}" descriptions as their event type.
const (
	EventOrderPlaced      = "order_placed"
	EventPaymentConfirmed = "payment_confirmed"
)

// OrderEvent is an immutable audit-log entry recording one transition or
// annotation on an order. Events are never mutated or deleted.
type OrderEvent struct {
	ID                  uuid.UUID  `json:"id"`
	OrderID             uuid.UUID  `json:"order_id"`
	EventType           string     `json:"event_type"`
	Description         string     `json:"description"`
	Notes               string     `json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	CreatedBy           *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// OrderRequest is the request payload for creating an order.
type OrderRequest struct {
	CakeConfig          CakeConfiguration `json:"cake_config"`
	DeliveryDate        string            `json:"delivery_date"`
	DeliveryTime        string            `json:"delivery_time,omitempty"`
	DeliveryAddress     string            `json:"delivery_address"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	TotalAmount         int64             `json:"total_amount"`
}

// OrderConfirmation is returned from order creation, pairing the stored order
// with the manual mobile-money payment instructions.
type OrderConfirmation struct {
	Order               Order  `json:"order"`
	PaymentInstructions string `json:"payment_instructions"`
}

// OrderUpdateRequest is the admin payload for status/payment transitions.
type OrderUpdateRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// EventRequest is the payload for appending a free-form order event.
type EventRequest struct {
	EventType           string     `json:"event_type"`
	Description         string     `json:"description"`
	Notes               string     `json:"notes,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}
