package tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/log"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderStore backs the sweeper with in-memory orders.
type stubOrderStore struct {
	orders       []entity.Order
	updatedPlans map[uint64]json.RawMessage
}

func (s *stubOrderStore) FindWithPlans(ctx context.Context) ([]entity.Order, error) {
	return s.orders, nil
}

func (s *stubOrderStore) UpdatePlan(ctx context.Context, tx *sqlx.Tx, orderID uint64, plan json.RawMessage) error {
	if s.updatedPlans == nil {
		s.updatedPlans = map[uint64]json.RawMessage{}
	}
	s.updatedPlans[orderID] = plan
	return nil
}

func sweeperLogger() log.Log {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return log.Log{AppName: "test", LogLevel: 3, Logger: l}
}

func planJSON(t *testing.T, plan *entity.PaymentPlan) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(plan)
	require.NoError(t, err)
	return raw
}

func TestHandleInstallmentsOverdue(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	overdue := &entity.PaymentPlan{
		TotalAmount: 1000,
		Currency:    "brl",
		Installments: []entity.Installment{
			{InstallmentNumber: 1, Percentage: 20, Amount: 200, Status: entity.InstallmentPaid, DueDate: &past},
			{InstallmentNumber: 2, Percentage: 80, Amount: 800, Status: entity.InstallmentPending, DueDate: &past},
		},
	}
	current := &entity.PaymentPlan{
		TotalAmount: 500,
		Currency:    "brl",
		Installments: []entity.Installment{
			{InstallmentNumber: 1, Percentage: 100, Amount: 500, Status: entity.InstallmentPending, DueDate: &future},
		},
	}

	store := &stubOrderStore{
		orders: []entity.Order{
			{ID: 1, PaymentPlan: planJSON(t, overdue)},
			{ID: 2, PaymentPlan: planJSON(t, current)},
			{ID: 3},
		},
	}
	sweeper := NewInstallmentSweeper(sweeperLogger(), store)

	err := sweeper.HandleInstallmentsOverdue(context.Background(), NewInstallmentsOverdueTask())
	require.NoError(t, err)

	// only the order with a pending installment past due was rewritten
	require.Len(t, store.updatedPlans, 1)
	raw, ok := store.updatedPlans[1]
	require.True(t, ok)

	var updated entity.PaymentPlan
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, entity.InstallmentPaid, updated.Installments[0].Status)
	assert.Equal(t, entity.InstallmentOverdue, updated.Installments[1].Status)
}
