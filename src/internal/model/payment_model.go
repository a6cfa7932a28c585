package model

import "time"

type CreateIntentRequest struct {
	UserID      string  `json:"-" validate:"required"`
	OrderID     uint64  `json:"order_id" validate:"required"`
	PaymentType string  `json:"payment_type" validate:"required,oneof=initial final"`
	Amount      float64 `json:"amount,omitempty"`
	PriceID     string  `json:"price_id,omitempty"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type ManualPaymentRequest struct {
	OrderID       uint64 `json:"-" validate:"required"`
	Actor         string `json:"-" validate:"required"`
	PaymentType   string `json:"payment_type" validate:"required,oneof=initial final"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
}

type PaymentResponse struct {
	ID          uint64    `json:"id"`
	OrderID     uint64    `json:"orderId"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	PaymentType string    `json:"paymentType"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"createdAt"`
}
