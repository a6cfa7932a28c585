package entity

import "time"

type Rating struct {
	ID        uint64    `db:"id" json:"id"`
	OrderID   uint64    `db:"order_id" json:"orderId"`
	UserID    string    `db:"user_id" json:"userId"`
	Score     int       `db:"score" json:"score"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
