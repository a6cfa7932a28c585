package entity

import (
	"encoding/json"
	"time"
)

type Order struct {
	ID                   uint64          `db:"id" json:"id"`
	UserID               string          `db:"user_id" json:"userId"`
	Status               OrderStatus     `db:"status" json:"status"`
	TotalPrice           float64         `db:"total_price" json:"totalPrice"`
	InitialPaymentAmount *float64        `db:"initial_payment_amount" json:"initialPaymentAmount,omitempty"`
	FinalPaymentAmount   *float64        `db:"final_payment_amount" json:"finalPaymentAmount,omitempty"`
	PaymentPlan          json.RawMessage `db:"payment_plan" json:"paymentPlan,omitempty"`
	BudgetStatus         string          `db:"budget_status" json:"budgetStatus"`
	AdminNotes           *string         `db:"admin_notes" json:"adminNotes,omitempty"`
	BudgetApprovedAt     *time.Time      `db:"budget_approved_at" json:"budgetApprovedAt,omitempty"`
	CouponID             *uint64         `db:"coupon_id" json:"couponId,omitempty"`
	DiscountAmount       *float64        `db:"discount_amount" json:"discountAmount,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem freezes the service unit price at order creation time.
type OrderItem struct {
	ID        uint64    `db:"id" json:"id"`
	OrderID   uint64    `db:"order_id" json:"orderId"`
	ServiceID uint64    `db:"service_id" json:"serviceId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UnitPrice float64   `db:"unit_price" json:"unitPrice"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Budget statuses tracked alongside the order lifecycle.
const (
	BudgetPending         = "pending"
	BudgetApproved        = "approved"
	BudgetRejected        = "rejected"
	BudgetWaitingApproval = "waiting_approval"
)

// Plan decodes the stored payment plan blob, nil when none was materialized.
func (o *Order) Plan() (*PaymentPlan, error) {
	if len(o.PaymentPlan) == 0 {
		return nil, nil
	}
	var plan PaymentPlan
	if err := json.Unmarshal(o.PaymentPlan, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
