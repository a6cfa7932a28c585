package usecase

import (
	"context"
	"testing"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	httpError "kolibra-order-service/src/pkg/http-error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderFixture() (*OrderUseCase, *mockOrderStore, *mockPaymentStore, *mockServiceStore, *mockRatingStore, *mockStatusEventStore) {
	orders := new(mockOrderStore)
	payments := new(mockPaymentStore)
	services := new(mockServiceStore)
	ratings := new(mockRatingStore)
	events := new(mockStatusEventStore)

	transitioner := &Transitioner{
		Orders: orders,
		Events: events,
		Log:    testLogger(),
	}
	uc := NewOrderUseCase(
		testLogger(),
		newTestValidator(),
		orders,
		payments,
		services,
		ratings,
		&fakeTxManager{},
		transitioner,
	)
	return uc, orders, payments, services, ratings, events
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	uc, orders, _, services, _, _ := newOrderFixture()

	services.On("FindByID", mock.Anything, uint64(2)).Return(&entity.ServiceOffering{
		ID: 2, Name: "Retrato", BasePrice: 150, Active: true,
	}, nil)
	orders.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(o *entity.Order) bool {
		return o.Status == entity.StatusSolicitado && o.BudgetStatus == entity.BudgetPending && o.TotalPrice == 0
	})).Return(uint64(10), nil)
	orders.On("InsertItem", mock.Anything, mock.Anything, mock.MatchedBy(func(item *entity.OrderItem) bool {
		return item.OrderID == 10 && item.ServiceID == 2 && item.Quantity == 3 && item.UnitPrice == 150
	})).Return(nil)

	result := uc.CreateOrder(context.Background(), &model.CreateOrderRequest{
		UserID: "user-1",
		Items:  []model.OrderItemRequest{{ServiceID: 2, Quantity: 3}},
	})
	require.Nil(t, result.Error)

	response := result.Data.(*model.OrderResponse)
	assert.Equal(t, uint64(10), response.ID)
	require.Len(t, response.Items, 1)
	assert.Equal(t, 150.0, response.Items[0].UnitPrice)
	orders.AssertExpectations(t)
}

func TestCreateOrderRejectsInactiveService(t *testing.T) {
	uc, orders, _, services, _, _ := newOrderFixture()

	services.On("FindByID", mock.Anything, uint64(5)).Return(&entity.ServiceOffering{
		ID: 5, Active: false,
	}, nil)

	result := uc.CreateOrder(context.Background(), &model.CreateOrderRequest{
		UserID: "user-1",
		Items:  []model.OrderItemRequest{{ServiceID: 5, Quantity: 1}},
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 400, commonErr.Code)
	orders.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrderOwnership(t *testing.T) {
	uc, orders, _, _, _, _ := newOrderFixture()

	orders.On("FindByID", mock.Anything, uint64(7)).Return(&entity.Order{
		ID: 7, UserID: "user-1", Status: entity.StatusSolicitado,
	}, nil)

	result := uc.GetOrder(context.Background(), &model.GetOrderRequest{
		UserID:  "intruder",
		OrderID: 7,
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 403, commonErr.Code)
}

func TestDecideQuoteApproveAutoAdvances(t *testing.T) {
	uc, orders, _, _, _, events := newOrderFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusOrcamentoEnviado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusOrcamentoAprovado).Return(nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusAceito).Return(nil)
	events.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	result := uc.DecideQuote(context.Background(), &model.QuoteDecisionRequest{
		UserID:  "user-1",
		OrderID: 7,
		Approve: true,
	})
	require.Nil(t, result.Error)

	assert.Equal(t, entity.StatusAceito, order.Status)
	orders.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestDecideQuoteReject(t *testing.T) {
	uc, orders, _, _, _, events := newOrderFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusOrcamentoEnviado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	orders.On("UpdateStatus", mock.Anything, mock.Anything, uint64(7), entity.StatusRejeitado).Return(nil)
	events.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result := uc.DecideQuote(context.Background(), &model.QuoteDecisionRequest{
		UserID:  "user-1",
		OrderID: 7,
		Approve: false,
	})
	require.Nil(t, result.Error)
	assert.Equal(t, entity.StatusRejeitado, order.Status)
}

func TestDecideQuoteBeforeQuoteSent(t *testing.T) {
	uc, orders, _, _, _, _ := newOrderFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusSolicitado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)

	result := uc.DecideQuote(context.Background(), &model.QuoteDecisionRequest{
		UserID:  "user-1",
		OrderID: 7,
		Approve: true,
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 400, commonErr.Code)
	assert.Equal(t, "state_conflict", commonErr.Type)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateOrderRequiresFinalized(t *testing.T) {
	uc, orders, _, _, ratings, _ := newOrderFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusEmAndamento}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)

	result := uc.RateOrder(context.Background(), &model.RateOrderRequest{
		UserID:  "user-1",
		OrderID: 7,
		Score:   5,
	})
	require.NotNil(t, result.Error)

	commonErr, ok := result.Error.(*httpError.CommonError)
	require.True(t, ok)
	assert.Equal(t, 400, commonErr.Code)
	ratings.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRateOrderFinalized(t *testing.T) {
	uc, orders, _, _, ratings, _ := newOrderFixture()

	order := &entity.Order{ID: 7, UserID: "user-1", Status: entity.StatusFinalizado}
	orders.On("FindByID", mock.Anything, uint64(7)).Return(order, nil)
	ratings.On("Insert", mock.Anything, mock.MatchedBy(func(r *entity.Rating) bool {
		return r.OrderID == 7 && r.Score == 4 && r.Comment != nil && *r.Comment == "bom trabalho"
	})).Return(nil)

	result := uc.RateOrder(context.Background(), &model.RateOrderRequest{
		UserID:  "user-1",
		OrderID: 7,
		Score:   4,
		Comment: "bom trabalho",
	})
	require.Nil(t, result.Error)
	ratings.AssertExpectations(t)
}
