package usecase

import (
	"context"
	"fmt"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/model/converter"
	"kolibra-order-service/src/internal/repository"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

// OrderUseCase is the client-facing surface of the order lifecycle.
type OrderUseCase struct {
	Log          log.Log
	Validate     *validator.Validate
	Orders       OrderStore
	Payments     PaymentStore
	Services     ServiceStore
	Ratings      RatingStore
	Tx           repository.TxManager
	Transitioner *Transitioner
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	orders OrderStore,
	payments PaymentStore,
	services ServiceStore,
	ratings RatingStore,
	tx repository.TxManager,
	transitioner *Transitioner,
) *OrderUseCase {
	return &OrderUseCase{
		Log:          logger,
		Validate:     validate,
		Orders:       orders,
		Payments:     payments,
		Services:     services,
		Ratings:      ratings,
		Tx:           tx,
		Transitioner: transitioner,
	}
}

// CreateOrder registers a new service request. Unit prices are snapshotted
// from the catalog at creation time; the total stays zero until an admin
// quotes the order.
func (c *OrderUseCase) CreateOrder(ctx context.Context, request *model.CreateOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "CreateOrder", utils.ConvertString(request))
		return result
	}

	order := &entity.Order{
		UserID:       request.UserID,
		Status:       entity.StatusSolicitado,
		BudgetStatus: entity.BudgetPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	var items []entity.OrderItem
	for _, item := range request.Items {
		svc, err := c.Services.FindByID(ctx, item.ServiceID)
		if err != nil {
			errObj := httpError.NewInternalServerError()
			result.Error = errObj
			c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(item))
			return result
		}
		if svc == nil || !svc.Active {
			errObj := httpError.NewBadRequest()
			errObj.Message = fmt.Sprintf("service %d not found or inactive", item.ServiceID)
			result.Error = errObj
			return result
		}
		items = append(items, entity.OrderItem{
			ServiceID: svc.ID,
			Quantity:  item.Quantity,
			UnitPrice: svc.BasePrice,
			CreatedAt: time.Now(),
		})
	}

	err := c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		orderID, err := c.Orders.Insert(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = orderID
		for i := range items {
			items[i].OrderID = orderID
			if err := c.Orders.InsertItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		errObj := httpError.NewInternalServerError()
		result.Error = errObj
		c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
		return result
	}

	order.Items = items
	c.Log.Info("order-usecase", fmt.Sprintf("order %d created", order.ID), "CreateOrder", order.UserID)
	result.Data = converter.OrderToResponse(order, nil)
	return result
}

func (c *OrderUseCase) GetOrder(ctx context.Context, request *model.GetOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOwnedOrder(ctx, request.OrderID, request.UserID, &result)
	if err != nil {
		return result
	}

	items, err := c.Orders.FindItems(ctx, order.ID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("order-usecase", err.Error(), "GetOrder", utils.ConvertString(request))
		return result
	}
	order.Items = items

	payments, err := c.Payments.FindByOrder(ctx, order.ID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("order-usecase", err.Error(), "GetOrder", utils.ConvertString(request))
		return result
	}

	result.Data = converter.OrderToResponse(order, payments)
	return result
}

func (c *OrderUseCase) ListOrders(ctx context.Context, request *model.ListOrdersRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	orders, err := c.Orders.FindByUser(ctx, request.UserID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("order-usecase", err.Error(), "ListOrders", request.UserID)
		return result
	}

	responses := make([]*model.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, converter.OrderToResponse(&orders[i], nil))
	}
	result.Data = responses
	return result
}

// DecideQuote lets the owning client approve or reject a sent quote. Approval
// auto-advances the order to Aceito so it is immediately payable.
func (c *OrderUseCase) DecideQuote(ctx context.Context, request *model.QuoteDecisionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOwnedOrder(ctx, request.OrderID, request.UserID, &result)
	if err != nil {
		return result
	}

	event := entity.EventQuoteReject
	if request.Approve {
		event = entity.EventQuoteApprove
	}

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := c.Transitioner.Apply(ctx, tx, order, event, request.UserID); err != nil {
			return err
		}
		if request.Approve {
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventAccept, request.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result.Error = transitionError(err)
		c.Log.Error("order-usecase", err.Error(), "DecideQuote", utils.ConvertString(request))
		return result
	}

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// RateOrder records a client rating for a finalized order.
func (c *OrderUseCase) RateOrder(ctx context.Context, request *model.RateOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOwnedOrder(ctx, request.OrderID, request.UserID, &result)
	if err != nil {
		return result
	}

	if order.Status.Normalize() != entity.StatusFinalizado {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("order can only be rated after completion, current status is %q", order.Status)
		result.Error = errObj
		return result
	}

	rating := &entity.Rating{
		OrderID:   order.ID,
		UserID:    request.UserID,
		Score:     request.Score,
		CreatedAt: time.Now(),
	}
	if request.Comment != "" {
		rating.Comment = &request.Comment
	}

	if err := c.Ratings.Insert(ctx, rating); err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("order-usecase", err.Error(), "RateOrder", utils.ConvertString(request))
		return result
	}

	result.Data = rating
	return result
}

func (c *OrderUseCase) findOwnedOrder(ctx context.Context, orderID uint64, userID string, result *utils.Result) (*entity.Order, error) {
	order, err := c.Orders.FindByID(ctx, orderID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("order-usecase", err.Error(), "findOwnedOrder", fmt.Sprintf("order %d", orderID))
		return nil, err
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %d not found", orderID)
		result.Error = errObj
		return nil, errObj
	}
	if order.UserID != userID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order does not belong to the authenticated user"
		result.Error = errObj
		return nil, errObj
	}
	return order, nil
}

// transitionError maps an invalid state machine transition to a 400 carrying
// the order's actual status; anything else is an internal failure.
func transitionError(err error) error {
	if invalid, ok := err.(*entity.InvalidTransitionError); ok {
		errObj := httpError.NewBadRequest()
		errObj.Message = invalid.Error()
		errObj.Type = "state_conflict"
		return errObj
	}
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return commonErr
	}
	return httpError.NewInternalServerError()
}
