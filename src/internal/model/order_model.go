package model

import (
	"time"

	"kolibra-order-service/src/internal/entity"
)

type OrderItemRequest struct {
	ServiceID uint64 `json:"serviceId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	UserID string             `json:"-" validate:"required"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type GetOrderRequest struct {
	UserID  string `json:"-" validate:"required"`
	OrderID uint64 `json:"-" validate:"required"`
}

type ListOrdersRequest struct {
	UserID string `json:"-" validate:"required"`
}

type ListAllOrdersRequest struct {
	Status string `json:"-"`
}

type QuoteDecisionRequest struct {
	UserID  string `json:"-" validate:"required"`
	OrderID uint64 `json:"-" validate:"required"`
	Approve bool   `json:"-"`
}

type InstallmentInput struct {
	Percentage  float64 `json:"percentage" validate:"gte=0"`
	Description string  `json:"description"`
}

type QuoteOrderRequest struct {
	OrderID      uint64             `json:"-" validate:"required"`
	Actor        string             `json:"-" validate:"required"`
	TotalPrice   float64            `json:"totalPrice" validate:"required,gt=0"`
	Installments []InstallmentInput `json:"installments,omitempty" validate:"omitempty,min=1,dive"`
}

type TransitionOrderRequest struct {
	OrderID uint64            `json:"-" validate:"required"`
	Actor   string            `json:"-" validate:"required"`
	Event   entity.OrderEvent `json:"-" validate:"required"`
}

type UpdateBudgetRequest struct {
	OrderID      uint64 `json:"-" validate:"required"`
	Actor        string `json:"-" validate:"required"`
	BudgetStatus string `json:"budgetStatus" validate:"required,oneof=pending approved rejected waiting_approval"`
	AdminNotes   string `json:"adminNotes,omitempty"`
}

type DeleteOrderRequest struct {
	OrderID uint64 `json:"-" validate:"required"`
	Actor   string `json:"-" validate:"required"`
}

type RateOrderRequest struct {
	UserID  string `json:"-" validate:"required"`
	OrderID uint64 `json:"-" validate:"required"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

type OrderItemResponse struct {
	ServiceID uint64  `json:"serviceId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderResponse struct {
	ID                   uint64              `json:"id"`
	UserID               string              `json:"userId"`
	Status               string              `json:"status"`
	TotalPrice           float64             `json:"totalPrice"`
	InitialPaymentAmount *float64            `json:"initialPaymentAmount,omitempty"`
	FinalPaymentAmount   *float64            `json:"finalPaymentAmount,omitempty"`
	PaymentPlan          *entity.PaymentPlan `json:"paymentPlan,omitempty"`
	BudgetStatus         string              `json:"budgetStatus"`
	AdminNotes           *string             `json:"adminNotes,omitempty"`
	DiscountAmount       *float64            `json:"discountAmount,omitempty"`
	Items                []OrderItemResponse `json:"items,omitempty"`
	Payments             []PaymentResponse   `json:"payments,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}
