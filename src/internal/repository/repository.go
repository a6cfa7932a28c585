package repository

import (
	"context"

	"kolibra-order-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

// TxManager runs a function inside one database transaction. Composite
// mutations (manual payment, cascading delete, webhook reconciliation) go
// through here so a failure between steps rolls everything back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type txManager struct {
	DB mysql.DBInterface
}

func NewTxManager(db mysql.DBInterface) TxManager {
	return &txManager{DB: db}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := m.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// ext picks the transaction when one is in flight, the pool otherwise.
func ext(tx *sqlx.Tx, db *sqlx.DB) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return db
}
