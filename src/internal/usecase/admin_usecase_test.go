package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/tasks"
	httpError "kolibra-order-service/src/pkg/http-error"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminFixture() (*AdminUseCase, *mockOrderStore, *mockPaymentStore, *mockRatingStore, *mockStatusEventStore) {
	orders := new(mockOrderStore)
	payments := new(mockPaymentStore)
	ratings := new(mockRatingStore)
	events := new(mockStatusEventStore)

	transitioner := &Transitioner{
		Orders: orders,
		Events: events,
		Log:    testLogger(),
	}
	uc := NewAdminUseCase(
		testLogger(),
		newTestValidator(),
		testConfig(),
		orders,
		payments,
		ratings,
		&fakeTxManager{},
		transitioner,
		nil,
	)
	return uc, orders, payments, ratings, events
}

func TestQuoteOrderDefaultPreset(t *testing.T) {
	uc, orders, _, _, events := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusSolicitado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateQuote", mock.Anything, mock.Anything, uint64(7), 1000.0,
		mock.MatchedBy(func(initial *float64) bool { return initial != nil && *initial == 200.0 }),
		mock.MatchedBy(func(final *float64) bool { return final != nil && *final == 800.0 }),
		mock.MatchedBy(func(raw json.RawMessage) bool {
			var plan entity.PaymentPlan
			if err := json.Unmarshal(raw, &plan); err != nil {
				return false
			}
			return len(plan.Installments) == 2 && plan.Installments[0].Percentage == 20
		}),
	).Return(nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusOrcamentoEnviado).Return(nil)
	events.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result := uc.QuoteOrder(context.Background(), &model.QuoteOrderRequest{
		OrderID:    7,
		Actor:      "admin-1",
		TotalPrice: 1000,
	})
	require.Nil(t, result.Error)

	response, ok := result.Data.(*model.OrderResponse)
	require.True(t, ok)
	assert.Equal(t, entity.StatusOrcamentoEnviado, entity.OrderStatus(response.Status))
	assert.Equal(t, 1000.0, response.TotalPrice)
	orders.AssertExpectations(t)
}

func TestQuoteOrderCustomInstallments(t *testing.T) {
	uc, orders, _, _, events := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusSolicitado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateQuote", mock.Anything, mock.Anything, uint64(7), 2000.0,
		mock.MatchedBy(func(initial *float64) bool { return initial != nil && *initial == 1000.0 }),
		mock.MatchedBy(func(final *float64) bool { return final != nil && *final == 1000.0 }),
		mock.Anything,
	).Return(nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusOrcamentoEnviado).Return(nil)
	events.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result := uc.QuoteOrder(context.Background(), &model.QuoteOrderRequest{
		OrderID:    7,
		Actor:      "admin-1",
		TotalPrice: 2000,
		Installments: []model.InstallmentInput{
			{Percentage: 50, Description: "Entrada"},
			{Percentage: 50, Description: "Final"},
		},
	})
	require.Nil(t, result.Error)
}

func TestQuoteOrderRejectsBadPercentages(t *testing.T) {
	uc, orders, _, _, _ := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusSolicitado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)

	result := uc.QuoteOrder(context.Background(), &model.QuoteOrderRequest{
		OrderID:    7,
		Actor:      "admin-1",
		TotalPrice: 1000,
		Installments: []model.InstallmentInput{
			{Percentage: 30}, {Percentage: 30},
		},
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 400, commonErr.Code)
	orders.AssertNotCalled(t, "UpdateQuote", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionOrderCancel(t *testing.T) {
	uc, orders, _, _, events := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusEmAndamento}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusCancelado).Return(nil)
	events.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result := uc.TransitionOrder(context.Background(), &model.TransitionOrderRequest{
		OrderID: 7,
		Actor:   "admin-1",
		Event:   entity.EventCancel,
	})
	require.Nil(t, result.Error)
	assert.Equal(t, entity.StatusCancelado, order.Status)
}

func TestTransitionOrderCancelFinalizedRejected(t *testing.T) {
	uc, orders, _, _, _ := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusFinalizado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)

	result := uc.TransitionOrder(context.Background(), &model.TransitionOrderRequest{
		OrderID: 7,
		Actor:   "admin-1",
		Event:   entity.EventCancel,
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 400, commonErr.Code)
	assert.Equal(t, "state_conflict", commonErr.Type)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOrderCascadeOrdering(t *testing.T) {
	uc, orders, payments, ratings, _ := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusCancelado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)

	var calls []string
	orders.On("DeleteItems", mock.Anything, mock.Anything, uint64(7)).Run(func(mock.Arguments) {
		calls = append(calls, "items")
	}).Return(nil)
	ratings.On("DeleteByOrder", mock.Anything, mock.Anything, uint64(7)).Run(func(mock.Arguments) {
		calls = append(calls, "ratings")
	}).Return(nil)
	payments.On("DeleteByOrder", mock.Anything, mock.Anything, uint64(7)).Run(func(mock.Arguments) {
		calls = append(calls, "payments")
	}).Return(nil)
	orders.On("Delete", mock.Anything, mock.Anything, uint64(7)).Run(func(mock.Arguments) {
		calls = append(calls, "order")
	}).Return(nil)

	result := uc.DeleteOrder(context.Background(), &model.DeleteOrderRequest{OrderID: 7, Actor: "admin-1"})
	require.Nil(t, result.Error)

	assert.Equal(t, []string{"items", "ratings", "payments", "order"}, calls)
}

func TestDeleteOrderAbortsOnDependentFailure(t *testing.T) {
	uc, orders, payments, ratings, _ := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusCancelado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("DeleteItems", mock.Anything, mock.Anything, uint64(7)).Return(nil)
	ratings.On("DeleteByOrder", mock.Anything, mock.Anything, uint64(7)).Return(errors.New("lock wait timeout"))

	result := uc.DeleteOrder(context.Background(), &model.DeleteOrderRequest{OrderID: 7, Actor: "admin-1"})
	require.NotNil(t, result.Error)

	payments.AssertNotCalled(t, "DeleteByOrder", mock.Anything, mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOrderNotFound(t *testing.T) {
	uc, orders, _, _, _ := newAdminFixture()

	orders.On("FindByID", mock.Anything, uint64(99)).Return(nil, nil)

	result := uc.DeleteOrder(context.Background(), &model.DeleteOrderRequest{OrderID: 99, Actor: "admin-1"})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 404, commonErr.Code)
}

func TestUpdateBudgetApproved(t *testing.T) {
	uc, orders, _, _, _ := newAdminFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusSolicitado, BudgetStatus: entity.BudgetPending}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateBudget", mock.Anything, uint64(7), entity.BudgetApproved,
		mock.MatchedBy(func(notes *string) bool { return notes != nil && *notes == "ok" }),
		mock.Anything,
	).Return(nil)

	result := uc.UpdateBudget(context.Background(), &model.UpdateBudgetRequest{
		OrderID:      7,
		Actor:        "admin-1",
		BudgetStatus: entity.BudgetApproved,
		AdminNotes:   "ok",
	})
	require.Nil(t, result.Error)

	response := result.Data.(*model.OrderResponse)
	assert.Equal(t, entity.BudgetApproved, response.BudgetStatus)
	assert.NotNil(t, order.BudgetApprovedAt)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

func TestSweepInstallmentsEnqueuesTask(t *testing.T) {
	uc, _, _, _, _ := newAdminFixture()
	enqueuer := new(mockEnqueuer)
	uc.Tasks = enqueuer

	enqueuer.On("Enqueue", mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeInstallmentsOverdue
	})).Return(&asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil)

	result := uc.SweepInstallments(context.Background())
	require.Nil(t, result.Error)

	data := result.Data.(map[string]interface{})
	assert.Equal(t, "task-1", data["task_id"])
	enqueuer.AssertExpectations(t)
}

func TestSweepInstallmentsWithoutQueue(t *testing.T) {
	uc, _, _, _, _ := newAdminFixture()

	result := uc.SweepInstallments(context.Background())
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 500, commonErr.Code)
}

func TestSweepInstallmentsEnqueueFailure(t *testing.T) {
	uc, _, _, _, _ := newAdminFixture()
	enqueuer := new(mockEnqueuer)
	uc.Tasks = enqueuer

	enqueuer.On("Enqueue", mock.Anything).Return(nil, errors.New("redis: connection refused"))

	result := uc.SweepInstallments(context.Background())
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 500, commonErr.Code)
}
