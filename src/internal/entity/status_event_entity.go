package entity

import "time"

// OrderStatusEvent is one row of the append-only transition log. Every status
// change writes one of these alongside the order update, so the full history
// stays reconstructable.
type OrderStatusEvent struct {
	ID         string      `db:"id" json:"id"`
	OrderID    uint64      `db:"order_id" json:"orderId"`
	FromStatus OrderStatus `db:"from_status" json:"fromStatus"`
	ToStatus   OrderStatus `db:"to_status" json:"toStatus"`
	Actor      string      `db:"actor" json:"actor"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}
