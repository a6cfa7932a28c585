package model

import "time"

// Event is anything the messaging gateway can publish.
type Event interface {
	GetId() string
}

// OrderStatusChanged is published to the order-status topic on every
// transition; it is the externalized counterpart of the status event table.
type OrderStatusChanged struct {
	EventID    string    `json:"eventId"`
	OrderID    uint64    `json:"orderId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e *OrderStatusChanged) GetId() string {
	return e.EventID
}
