package repository

import (
	"context"
	"database/sql"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type PaymentRepository struct {
	DB mysql.DBInterface
}

func NewPaymentRepository(db mysql.DBInterface) *PaymentRepository {
	return &PaymentRepository{
		DB: db,
	}
}

func (r *PaymentRepository) Insert(ctx context.Context, tx *sqlx.Tx, payment *entity.Payment) (uint64, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO payments (order_id, amount, currency, payment_type, status, stripe_payment_intent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := ext(tx, db).ExecContext(ctx, query,
		payment.OrderID,
		payment.Amount,
		payment.Currency,
		payment.PaymentType,
		payment.Status,
		payment.StripePaymentIntentID,
		payment.CreatedAt,
		payment.UpdatedAt,
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

func (r *PaymentRepository) FindByIntentID(ctx context.Context, intentID string) (*entity.Payment, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var payment entity.Payment
	query := `
		SELECT id, order_id, amount, currency, payment_type, status, stripe_payment_intent_id, created_at, updated_at
		FROM payments
		WHERE stripe_payment_intent_id = ?`
	if err := db.GetContext(ctx, &payment, query, intentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByOrder(ctx context.Context, orderID uint64) ([]entity.Payment, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var payments []entity.Payment
	query := `
		SELECT id, order_id, amount, currency, payment_type, status, stripe_payment_intent_id, created_at, updated_at
		FROM payments
		WHERE order_id = ?
		ORDER BY id`
	if err := db.SelectContext(ctx, &payments, query, orderID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) UpdateStatusByIntentID(ctx context.Context, tx *sqlx.Tx, intentID, status string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE payments SET status = ?, updated_at = ? WHERE stripe_payment_intent_id = ?`
	_, err = ext(tx, db).ExecContext(ctx, query, status, time.Now(), intentID)
	return err
}

// ExistsSucceeded guards the one-successful-payment-per-phase invariant; the
// check runs inside the same transaction as the insert it protects.
func (r *PaymentRepository) ExistsSucceeded(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	var count int
	query := `
		SELECT COUNT(1)
		FROM payments
		WHERE order_id = ? AND payment_type = ? AND status IN (?, ?)`
	row := ext(tx, db).QueryRowxContext(ctx, query, orderID, paymentType, entity.PaymentStatusSucceeded, entity.PaymentStatusCompleted)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PaymentRepository) DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = ext(tx, db).ExecContext(ctx, `DELETE FROM payments WHERE order_id = ?`, orderID)
	return err
}
