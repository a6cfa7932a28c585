package entity

import (
	"strings"
	"time"
)

// Payment phases of an order's total price.
const (
	PaymentTypeInitial = "initial"
	PaymentTypeFinal   = "final"
)

// Payment statuses. Processor-originated rows mirror the payment-intent status
// reported by Stripe; manually recorded payments are inserted directly as
// "completed".
const (
	PaymentStatusRequiresPaymentMethod = "requires_payment_method"
	PaymentStatusProcessing            = "processing"
	PaymentStatusSucceeded             = "succeeded"
	PaymentStatusFailed                = "payment_failed"
	PaymentStatusCompleted             = "completed"
)

// ManualReferencePrefix distinguishes offline payments from processor rows
// sharing the same table.
const ManualReferencePrefix = "manual_"

type Payment struct {
	ID                    uint64    `db:"id" json:"id"`
	OrderID               uint64    `db:"order_id" json:"orderId"`
	Amount                float64   `db:"amount" json:"amount"`
	Currency              string    `db:"currency" json:"currency"`
	PaymentType           string    `db:"payment_type" json:"paymentType"`
	Status                string    `db:"status" json:"status"`
	StripePaymentIntentID string    `db:"stripe_payment_intent_id" json:"stripePaymentIntentId"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *Payment) IsManual() bool {
	return strings.HasPrefix(p.StripePaymentIntentID, ManualReferencePrefix)
}

func (p *Payment) Succeeded() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusCompleted
}
