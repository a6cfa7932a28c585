package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

const orderColumns = `
	id,
	user_id,
	status,
	total_price,
	initial_payment_amount,
	final_payment_amount,
	payment_plan,
	budget_status,
	admin_notes,
	budget_approved_at,
	coupon_id,
	discount_amount,
	created_at,
	updated_at`

func (r *OrderRepository) Insert(ctx context.Context, tx *sqlx.Tx, order *entity.Order) (uint64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO orders (user_id, status, total_price, budget_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := ext(tx, db).ExecContext(ctx, query,
		order.UserID,
		order.Status,
		order.TotalPrice,
		order.BudgetStatus,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *OrderRepository) InsertItem(ctx context.Context, tx *sqlx.Tx, item *entity.OrderItem) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO order_items (order_id, service_id, quantity, unit_price, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = ext(tx, db).ExecContext(ctx, query,
		item.OrderID,
		item.ServiceID,
		item.Quantity,
		item.UnitPrice,
		item.CreatedAt,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var order entity.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	if err := db.GetContext(ctx, &order, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindItems(ctx context.Context, orderID uint64) ([]entity.OrderItem, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var items []entity.OrderItem
	query := `
		SELECT id, order_id, service_id, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = ?
		ORDER BY id`
	if err := db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) FindAll(ctx context.Context, status string) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	if status != "" {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE status = ? ORDER BY created_at DESC`
		err = db.SelectContext(ctx, &orders, query, status)
	} else {
		query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
		err = db.SelectContext(ctx, &orders, query)
	}
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) FindWithPlans(ctx context.Context) ([]entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_plan IS NOT NULL AND status NOT IN (?, ?)`
	if err := db.SelectContext(ctx, &orders, query, entity.StatusCancelado, entity.StatusRejeitado); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateQuote(ctx context.Context, tx *sqlx.Tx, orderID uint64, total float64, initial, final *float64, plan json.RawMessage) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE orders
		SET total_price = ?,
		    initial_payment_amount = ?,
		    final_payment_amount = ?,
		    payment_plan = ?,
		    updated_at = ?
		WHERE id = ?`

	_, err = ext(tx, db).ExecContext(ctx, query, total, initial, final, []byte(plan), time.Now(), orderID)
	return err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, orderID uint64, status entity.OrderStatus) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`
	_, err = ext(tx, db).ExecContext(ctx, query, status, time.Now(), orderID)
	return err
}

func (r *OrderRepository) UpdateBudget(ctx context.Context, orderID uint64, budgetStatus string, notes *string, approvedAt *time.Time) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		UPDATE orders
		SET budget_status = ?, admin_notes = ?, budget_approved_at = ?, updated_at = ?
		WHERE id = ?`
	_, err = db.ExecContext(ctx, query, budgetStatus, notes, approvedAt, time.Now(), orderID)
	return err
}

func (r *OrderRepository) SetPhaseAmount(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string, amount float64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	column := "initial_payment_amount"
	if paymentType == entity.PaymentTypeFinal {
		column = "final_payment_amount"
	}

	query := `UPDATE orders SET ` + column + ` = ?, updated_at = ? WHERE id = ?`
	_, err = ext(tx, db).ExecContext(ctx, query, amount, time.Now(), orderID)
	return err
}

func (r *OrderRepository) UpdatePlan(ctx context.Context, tx *sqlx.Tx, orderID uint64, plan json.RawMessage) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE orders SET payment_plan = ?, updated_at = ? WHERE id = ?`
	_, err = ext(tx, db).ExecContext(ctx, query, []byte(plan), time.Now(), orderID)
	return err
}

func (r *OrderRepository) DeleteItems(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = ext(tx, db).ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	return err
}

func (r *OrderRepository) Delete(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = ext(tx, db).ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	return err
}
