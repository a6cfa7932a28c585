package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
)

const TypeInstallmentsOverdue = "order:installments-overdue"

func NewInstallmentsOverdueTask() *asynq.Task {
	return asynq.NewTask(TypeInstallmentsOverdue, nil)
}

// OrderSource is the slice of the order store the sweeper needs.
type OrderSource interface {
	FindWithPlans(ctx context.Context) ([]entity.Order, error)
	UpdatePlan(ctx context.Context, tx *sqlx.Tx, orderID uint64, plan json.RawMessage) error
}

// InstallmentSweeper periodically flips pending installments past their due
// date to overdue. Paid installments are never touched.
type InstallmentSweeper struct {
	Log    log.Log
	Orders OrderSource
}

func NewInstallmentSweeper(logger log.Log, orders OrderSource) *InstallmentSweeper {
	return &InstallmentSweeper{
		Log:    logger,
		Orders: orders,
	}
}

func (s *InstallmentSweeper) HandleInstallmentsOverdue(ctx context.Context, t *asynq.Task) error {
	orders, err := s.Orders.FindWithPlans(ctx)
	if err != nil {
		s.Log.Error("installment-sweeper", err.Error(), "HandleInstallmentsOverdue", "")
		return err
	}

	now := time.Now()
	swept := 0
	for i := range orders {
		order := &orders[i]
		plan, err := order.Plan()
		if err != nil {
			s.Log.Warn("installment-sweeper", fmt.Sprintf("order %d has an unreadable plan: %v", order.ID, err), "HandleInstallmentsOverdue", "")
			continue
		}
		if plan == nil {
			continue
		}

		changed := false
		for j := range plan.Installments {
			inst := &plan.Installments[j]
			if inst.Status == entity.InstallmentPending && inst.DueDate != nil && inst.DueDate.Before(now) {
				inst.Status = entity.InstallmentOverdue
				changed = true
			}
		}
		if !changed {
			continue
		}

		planJSON, err := json.Marshal(plan)
		if err != nil {
			s.Log.Error("installment-sweeper", err.Error(), "HandleInstallmentsOverdue", fmt.Sprintf("order %d", order.ID))
			continue
		}
		if err := s.Orders.UpdatePlan(ctx, nil, order.ID, planJSON); err != nil {
			s.Log.Error("installment-sweeper", err.Error(), "HandleInstallmentsOverdue", fmt.Sprintf("order %d", order.ID))
			continue
		}
		swept++
	}

	s.Log.Info("installment-sweeper", fmt.Sprintf("marked overdue installments on %d orders", swept), "HandleInstallmentsOverdue", "")
	return nil
}
