package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/gateway/processor"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/model/converter"
	"kolibra-order-service/src/internal/repository"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// PaymentUseCase covers the payment intent orchestrator and the manual
// payment recorder.
type PaymentUseCase struct {
	Log          log.Log
	Validate     *validator.Validate
	Config       *viper.Viper
	Orders       OrderStore
	Payments     PaymentStore
	Processor    processor.Gateway
	Tx           repository.TxManager
	Transitioner *Transitioner
}

func NewPaymentUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	orders OrderStore,
	payments PaymentStore,
	gateway processor.Gateway,
	tx repository.TxManager,
	transitioner *Transitioner,
) *PaymentUseCase {
	return &PaymentUseCase{
		Log:          logger,
		Validate:     validate,
		Config:       cfg,
		Orders:       orders,
		Payments:     payments,
		Processor:    gateway,
		Tx:           tx,
		Transitioner: transitioner,
	}
}

// ResolvePhaseAmount is the single amount-resolution path for both the
// orchestrator and the manual recorder: the stored legacy column wins, then
// the materialized plan, and when neither exists the default 20/80 preset is
// built over the total and read like any other plan.
func ResolvePhaseAmount(order *entity.Order, paymentType string, currency string) (float64, error) {
	if order.TotalPrice <= 0 {
		return 0, fmt.Errorf("order %d has no priced total", order.ID)
	}

	if paymentType == entity.PaymentTypeInitial && order.InitialPaymentAmount != nil && *order.InitialPaymentAmount > 0 {
		return *order.InitialPaymentAmount, nil
	}
	if paymentType == entity.PaymentTypeFinal && order.FinalPaymentAmount != nil && *order.FinalPaymentAmount > 0 {
		return *order.FinalPaymentAmount, nil
	}

	plan, err := order.Plan()
	if err != nil {
		return 0, err
	}
	// a stored blob with no installments is as useless as no plan at all
	if plan == nil || len(plan.Installments) == 0 {
		plan, err = BuildPaymentPlan(order.TotalPrice, currency, PresetTwentyEighty())
		if err != nil {
			return 0, err
		}
	}

	if paymentType == entity.PaymentTypeInitial {
		return plan.Installments[0].Amount, nil
	}
	return roundHalfUp(order.TotalPrice - plan.Installments[0].Amount), nil
}

// CreateIntent asks the processor for a payment intent and persists the
// pending payment row. If the row insert fails after the intent was created
// the client secret is still returned; collecting the payment outranks
// bookkeeping.
func (c *PaymentUseCase) CreateIntent(ctx context.Context, request *model.CreateIntentRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.Orders.FindByID(ctx, request.OrderID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("payment-usecase", err.Error(), "CreateIntent", utils.ConvertString(request))
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %d not found", request.OrderID)
		result.Error = errObj
		return result
	}
	if order.UserID != request.UserID {
		errObj := httpError.NewForbidden()
		errObj.Message = "order does not belong to the authenticated user"
		result.Error = errObj
		return result
	}

	if err := checkPhaseStatus(order, request.PaymentType); err != nil {
		result.Error = err
		return result
	}

	exists, err := c.Payments.ExistsSucceeded(ctx, nil, order.ID, request.PaymentType)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("payment-usecase", err.Error(), "CreateIntent", utils.ConvertString(request))
		return result
	}
	if exists {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("a successful %s payment already exists for order %d", request.PaymentType, order.ID)
		result.Error = errObj
		return result
	}

	currency := c.Config.GetString("payment.currency")
	amount, err := ResolvePhaseAmount(order, request.PaymentType, currency)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	intent, err := c.Processor.CreateIntent(ctx, toCents(amount), currency, map[string]string{
		"order_id":     strconv.FormatUint(order.ID, 10),
		"user_id":      order.UserID,
		"payment_type": request.PaymentType,
	})
	if err != nil {
		result.Error = c.processorError(err, request)
		return result
	}

	payment := &entity.Payment{
		OrderID:               order.ID,
		Amount:                amount,
		Currency:              currency,
		PaymentType:           request.PaymentType,
		Status:                intent.Status,
		StripePaymentIntentID: intent.ID,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	if _, err := c.Payments.Insert(ctx, nil, payment); err != nil {
		c.Log.Error("payment-usecase",
			fmt.Sprintf("intent %s created but payment row insert failed: %v", intent.ID, err),
			"CreateIntent", utils.ConvertString(request))
	}

	result.Data = model.CreateIntentResponse{ClientSecret: intent.ClientSecret}
	return result
}

// RecordManualPayment registers an offline payment (cash, bank transfer) and
// applies the same order side effects as a successful processor payment, all
// inside one transaction.
func (c *PaymentUseCase) RecordManualPayment(ctx context.Context, request *model.ManualPaymentRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	order, err := c.Orders.FindByID(ctx, request.OrderID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("payment-usecase", err.Error(), "RecordManualPayment", utils.ConvertString(request))
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %d not found", request.OrderID)
		result.Error = errObj
		return result
	}

	currency := c.Config.GetString("payment.currency")
	amount, err := ResolvePhaseAmount(order, request.PaymentType, currency)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	payment := &entity.Payment{
		OrderID:     order.ID,
		Amount:      amount,
		Currency:    currency,
		PaymentType: request.PaymentType,
		Status:      entity.PaymentStatusCompleted,
		StripePaymentIntentID: fmt.Sprintf("%s%s_%d",
			entity.ManualReferencePrefix, request.PaymentMethod, time.Now().Unix()),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		exists, err := c.Payments.ExistsSucceeded(ctx, tx, order.ID, request.PaymentType)
		if err != nil {
			return err
		}
		if exists {
			errObj := httpError.NewConflict()
			errObj.Message = fmt.Sprintf("a successful %s payment already exists for order %d", request.PaymentType, order.ID)
			return errObj
		}

		if _, err := c.Payments.Insert(ctx, tx, payment); err != nil {
			return err
		}
		if err := c.Orders.SetPhaseAmount(ctx, tx, order.ID, request.PaymentType, amount); err != nil {
			return err
		}

		switch request.PaymentType {
		case entity.PaymentTypeInitial:
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventInitialPaid, request.Actor); err != nil {
				return err
			}
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventStartProgress, request.Actor); err != nil {
				return err
			}
		case entity.PaymentTypeFinal:
			// amount is stored regardless; the status only moves when the
			// order already reached Finalizado
			if order.Status.Normalize() == entity.StatusFinalizado {
				if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventFinalPaid, request.Actor); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		result.Error = transitionError(err)
		c.Log.Error("payment-usecase", err.Error(), "RecordManualPayment", utils.ConvertString(request))
		return result
	}

	result.Data = converter.PaymentToResponse(payment)
	return result
}

// checkPhaseStatus enforces the status preconditions of each payment phase
// and reports the actual status on conflict.
func checkPhaseStatus(order *entity.Order, paymentType string) error {
	status := order.Status.Normalize()
	switch paymentType {
	case entity.PaymentTypeInitial:
		if status != entity.StatusAceito {
			errObj := httpError.NewBadRequest()
			errObj.Message = fmt.Sprintf("initial payment requires order status %q, current status is %q", entity.StatusAceito, order.Status)
			errObj.Type = "state_conflict"
			return errObj
		}
	case entity.PaymentTypeFinal:
		if status != entity.StatusFinalizado {
			errObj := httpError.NewBadRequest()
			errObj.Message = fmt.Sprintf("final payment requires order status %q, current status is %q", entity.StatusFinalizado, order.Status)
			errObj.Type = "state_conflict"
			return errObj
		}
	}
	return nil
}

func (c *PaymentUseCase) processorError(err error, request *model.CreateIntentRequest) error {
	procErr, ok := err.(*processor.ProcessorError)
	if !ok {
		c.Log.Error("payment-usecase", err.Error(), "CreateIntent", utils.ConvertString(request))
		return httpError.NewInternalServerError()
	}

	switch procErr.Kind {
	case processor.KindAuthentication:
		// configuration problem, needs an operator, never retried
		c.Log.Error("payment-usecase",
			fmt.Sprintf("processor authentication failed: %s", procErr.Message),
			"CreateIntent", utils.ConvertString(request))
		errObj := httpError.NewInternalServerError()
		errObj.Message = "payment service is unavailable, please contact support"
		return errObj
	case processor.KindInvalidRequest:
		errObj := httpError.NewBadRequest()
		errObj.Message = "payment request rejected by processor"
		errObj.Details = procErr.Message
		return errObj
	default:
		c.Log.Error("payment-usecase", procErr.Message, "CreateIntent", utils.ConvertString(request))
		return httpError.NewInternalServerError()
	}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
