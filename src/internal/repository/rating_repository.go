package repository

import (
	"context"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type RatingRepository struct {
	DB mysql.DBInterface
}

func NewRatingRepository(db mysql.DBInterface) *RatingRepository {
	return &RatingRepository{
		DB: db,
	}
}

func (r *RatingRepository) Insert(ctx context.Context, rating *entity.Rating) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ratings (order_id, user_id, score, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		rating.OrderID,
		rating.UserID,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
	)
	return err
}

func (r *RatingRepository) DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	_, err = ext(tx, db).ExecContext(ctx, `DELETE FROM ratings WHERE order_id = ?`, orderID)
	return err
}
