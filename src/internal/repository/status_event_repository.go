package repository

import (
	"context"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

// StatusEventRepository is append-only: transition rows are never updated or
// deleted, even when the order itself is removed.
type StatusEventRepository struct {
	DB mysql.DBInterface
}

func NewStatusEventRepository(db mysql.DBInterface) *StatusEventRepository {
	return &StatusEventRepository{
		DB: db,
	}
}

func (r *StatusEventRepository) Insert(ctx context.Context, tx *sqlx.Tx, event *entity.OrderStatusEvent) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO order_status_events (id, order_id, from_status, to_status, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = ext(tx, db).ExecContext(ctx, query,
		event.ID,
		event.OrderID,
		event.FromStatus,
		event.ToStatus,
		event.Actor,
		event.CreatedAt,
	)
	return err
}

func (r *StatusEventRepository) FindByOrder(ctx context.Context, orderID uint64) ([]entity.OrderStatusEvent, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var events []entity.OrderStatusEvent
	query := `
		SELECT id, order_id, from_status, to_status, actor, created_at
		FROM order_status_events
		WHERE order_id = ?
		ORDER BY created_at`
	if err := db.SelectContext(ctx, &events, query, orderID); err != nil {
		return nil, err
	}
	return events, nil
}
