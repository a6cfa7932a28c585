package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/model/converter"
	"kolibra-order-service/src/internal/repository"
	"kolibra-order-service/src/internal/tasks"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// AdminUseCase is the back-office surface: quoting, lifecycle transitions,
// budget bookkeeping and the cascading delete.
type AdminUseCase struct {
	Log          log.Log
	Validate     *validator.Validate
	Config       *viper.Viper
	Orders       OrderStore
	Payments     PaymentStore
	Ratings      RatingStore
	Tx           repository.TxManager
	Transitioner *Transitioner
	Tasks        TaskEnqueuer
}

func NewAdminUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	orders OrderStore,
	payments PaymentStore,
	ratings RatingStore,
	tx repository.TxManager,
	transitioner *Transitioner,
	enqueuer TaskEnqueuer,
) *AdminUseCase {
	return &AdminUseCase{
		Log:          logger,
		Validate:     validate,
		Config:       cfg,
		Orders:       orders,
		Payments:     payments,
		Ratings:      ratings,
		Tx:           tx,
		Transitioner: transitioner,
		Tasks:        enqueuer,
	}
}

func (c *AdminUseCase) ListOrders(ctx context.Context, request *model.ListAllOrdersRequest) utils.Result {
	var result utils.Result

	orders, err := c.Orders.FindAll(ctx, request.Status)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "ListOrders", request.Status)
		return result
	}

	responses := make([]*model.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, converter.OrderToResponse(&orders[i], nil))
	}
	result.Data = responses
	return result
}

// QuoteOrder prices an order and materializes its payment plan. When no
// installments are given the default 20/80 preset is used, so every quoted
// order carries a concrete plan. The legacy initial/final amount columns are
// filled from the plan: first installment vs remainder.
func (c *AdminUseCase) QuoteOrder(ctx context.Context, request *model.QuoteOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOrder(ctx, request.OrderID, &result)
	if err != nil {
		return result
	}

	installments := request.Installments
	if len(installments) == 0 {
		installments = PresetTwentyEighty()
	}

	currency := c.Config.GetString("payment.currency")
	plan, err := BuildPaymentPlan(request.TotalPrice, currency, installments)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "QuoteOrder", utils.ConvertString(plan))
		return result
	}

	initial := plan.Installments[0].Amount
	final := roundHalfUp(request.TotalPrice - initial)

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := c.Orders.UpdateQuote(ctx, tx, order.ID, request.TotalPrice, &initial, &final, planJSON); err != nil {
			return err
		}
		_, err := c.Transitioner.Apply(ctx, tx, order, entity.EventQuoteSent, request.Actor)
		return err
	})
	if err != nil {
		result.Error = transitionError(err)
		c.Log.Error("admin-usecase", err.Error(), "QuoteOrder", utils.ConvertString(request))
		return result
	}

	order.TotalPrice = request.TotalPrice
	order.InitialPaymentAmount = &initial
	order.FinalPaymentAmount = &final
	order.PaymentPlan = planJSON
	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// TransitionOrder applies an admin lifecycle event (accept, finalize, cancel).
func (c *AdminUseCase) TransitionOrder(ctx context.Context, request *model.TransitionOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOrder(ctx, request.OrderID, &result)
	if err != nil {
		return result
	}

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		_, err := c.Transitioner.Apply(ctx, tx, order, request.Event, request.Actor)
		return err
	})
	if err != nil {
		result.Error = transitionError(err)
		c.Log.Error("admin-usecase", err.Error(), "TransitionOrder", utils.ConvertString(request))
		return result
	}

	result.Data = converter.OrderToResponse(order, nil)
	return result
}

func (c *AdminUseCase) UpdateBudget(ctx context.Context, request *model.UpdateBudgetRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOrder(ctx, request.OrderID, &result)
	if err != nil {
		return result
	}

	var notes *string
	if request.AdminNotes != "" {
		notes = &request.AdminNotes
	}
	var approvedAt *time.Time
	if request.BudgetStatus == entity.BudgetApproved {
		now := time.Now()
		approvedAt = &now
	}

	if err := c.Orders.UpdateBudget(ctx, order.ID, request.BudgetStatus, notes, approvedAt); err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "UpdateBudget", utils.ConvertString(request))
		return result
	}

	order.BudgetStatus = request.BudgetStatus
	order.AdminNotes = notes
	order.BudgetApprovedAt = approvedAt
	result.Data = converter.OrderToResponse(order, nil)
	return result
}

// DeleteOrder removes an order and its dependents inside one transaction.
// Deletion order is most-dependent first: items, ratings, payments, then the
// order row; any failure rolls the whole operation back and the order stays
// intact.
func (c *AdminUseCase) DeleteOrder(ctx context.Context, request *model.DeleteOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.findOrder(ctx, request.OrderID, &result)
	if err != nil {
		return result
	}

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := c.Orders.DeleteItems(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := c.Ratings.DeleteByOrder(ctx, tx, order.ID); err != nil {
			return err
		}
		if err := c.Payments.DeleteByOrder(ctx, tx, order.ID); err != nil {
			return err
		}
		return c.Orders.Delete(ctx, tx, order.ID)
	})
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "DeleteOrder", utils.ConvertString(request))
		return result
	}

	c.Log.Info("admin-usecase", fmt.Sprintf("order %d deleted by %s", order.ID, request.Actor), "DeleteOrder", "")
	result.Data = map[string]interface{}{"deleted": order.ID}
	return result
}

// SweepInstallments queues an immediate overdue-installments sweep, the same
// task the hourly scheduler runs.
func (c *AdminUseCase) SweepInstallments(ctx context.Context) utils.Result {
	var result utils.Result

	if c.Tasks == nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", "task queue is not configured", "SweepInstallments", "")
		return result
	}

	info, err := c.Tasks.Enqueue(tasks.NewInstallmentsOverdueTask())
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "SweepInstallments", "")
		return result
	}

	c.Log.Info("admin-usecase", fmt.Sprintf("installments sweep enqueued: %s", info.ID), "SweepInstallments", "")
	result.Data = map[string]interface{}{"task_id": info.ID, "queue": info.Queue}
	return result
}

func (c *AdminUseCase) findOrder(ctx context.Context, orderID uint64, result *utils.Result) (*entity.Order, error) {
	order, err := c.Orders.FindByID(ctx, orderID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("admin-usecase", err.Error(), "findOrder", fmt.Sprintf("order %d", orderID))
		return nil, err
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %d not found", orderID)
		result.Error = errObj
		return nil, errObj
	}
	return order, nil
}
