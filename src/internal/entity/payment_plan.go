package entity

import "time"

// Installment statuses inside a payment plan.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
	InstallmentOverdue = "overdue"
)

// PaymentPlan is stored as a JSON blob on the order row.
type PaymentPlan struct {
	TotalAmount  float64       `json:"totalAmount"`
	Currency     string        `json:"currency"`
	Installments []Installment `json:"installments"`
}

type Installment struct {
	InstallmentNumber int        `json:"installmentNumber"`
	Percentage        float64    `json:"percentage"`
	Amount            float64    `json:"amount"`
	Status            string     `json:"status"`
	Description       string     `json:"description,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
}

// RemainingAfterFirst sums every installment after the first one.
func (p *PaymentPlan) RemainingAfterFirst() float64 {
	var sum float64
	for i, inst := range p.Installments {
		if i == 0 {
			continue
		}
		sum += inst.Amount
	}
	return sum
}
