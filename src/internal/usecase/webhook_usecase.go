package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/gateway/processor"
	"kolibra-order-service/src/internal/repository"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const webhookDedupTTL = 24 * time.Hour

// EventDeduper remembers processed webhook event ids so redeliveries are
// acknowledged without being applied twice.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// RedisEventDeduper backs EventDeduper with a SetNX key per event id.
type RedisEventDeduper struct {
	Client redis.UniversalClient
}

func (d *RedisEventDeduper) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf("WEBHOOK:EVENT:%s", eventID)
	return d.Client.SetNX(ctx, key, 1, webhookDedupTTL).Result()
}

func (d *RedisEventDeduper) Release(ctx context.Context, eventID string) error {
	key := fmt.Sprintf("WEBHOOK:EVENT:%s", eventID)
	return d.Client.Del(ctx, key).Err()
}

// WebhookUseCase reconciles asynchronous payment-result notifications from
// the processor with the local payment and order state.
type WebhookUseCase struct {
	Log          log.Log
	Orders       OrderStore
	Payments     PaymentStore
	Processor    processor.Gateway
	Dedup        EventDeduper
	Tx           repository.TxManager
	Transitioner *Transitioner
}

func NewWebhookUseCase(
	logger log.Log,
	orders OrderStore,
	payments PaymentStore,
	gateway processor.Gateway,
	dedup EventDeduper,
	tx repository.TxManager,
	transitioner *Transitioner,
) *WebhookUseCase {
	return &WebhookUseCase{
		Log:          logger,
		Orders:       orders,
		Payments:     payments,
		Processor:    gateway,
		Dedup:        dedup,
		Tx:           tx,
		Transitioner: transitioner,
	}
}

// HandleProcessorEvent verifies, dedups and applies one webhook delivery.
// Signature verification fails closed before anything is read or written.
// Non-actionable event types are acknowledged with success so the processor
// stops retrying. A delivery that fails to apply releases its dedup mark, so
// the processor's retry of the same event id is processed again rather than
// swallowed as a duplicate.
func (c *WebhookUseCase) HandleProcessorEvent(ctx context.Context, payload []byte, signature string) utils.Result {
	var result utils.Result

	if signature == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "missing webhook signature header"
		result.Error = errObj
		return result
	}

	event, err := c.Processor.VerifyWebhook(payload, signature)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = "webhook signature verification failed"
		result.Error = errObj
		c.Log.Error("webhook-usecase", err.Error(), "HandleProcessorEvent", "")
		return result
	}

	marked := false
	if c.Dedup != nil {
		set, err := c.Dedup.MarkProcessed(ctx, event.ID)
		if err != nil {
			// dedup is best effort, processing continues without it
			c.Log.Warn("webhook-usecase", fmt.Sprintf("event dedup unavailable: %v", err), "HandleProcessorEvent", event.ID)
		} else if !set {
			c.Log.Info("webhook-usecase", fmt.Sprintf("duplicate event %s ignored", event.ID), "HandleProcessorEvent", "")
			result.Data = map[string]interface{}{"received": true, "duplicate": true}
			return result
		} else {
			marked = true
		}
	}

	switch event.Type {
	case "payment_intent.succeeded":
		result = c.applyPaymentResult(ctx, event, entity.PaymentStatusSucceeded)
	case "payment_intent.payment_failed":
		result = c.applyPaymentResult(ctx, event, entity.PaymentStatusFailed)
	default:
		c.Log.Info("webhook-usecase", fmt.Sprintf("ignoring event type %s", event.Type), "HandleProcessorEvent", event.ID)
		result.Data = map[string]interface{}{"received": true}
		return result
	}

	if result.Error != nil && marked {
		if err := c.Dedup.Release(ctx, event.ID); err != nil {
			c.Log.Warn("webhook-usecase", fmt.Sprintf("failed to release dedup mark: %v", err), "HandleProcessorEvent", event.ID)
		}
	}
	return result
}

// applyPaymentResult records the processor's verdict on a payment. The
// payment row is updated before any order side effect, so the verdict
// survives even when the order cannot move, such as when an admin manually
// recorded the phase while the processor payment was in flight. That conflict
// is logged and acknowledged; only unknown intents and storage failures are
// reported back to the processor.
func (c *WebhookUseCase) applyPaymentResult(ctx context.Context, event *processor.WebhookEvent, status string) utils.Result {
	var result utils.Result

	payment, err := c.Payments.FindByIntentID(ctx, event.IntentID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("webhook-usecase", err.Error(), "applyPaymentResult", event.IntentID)
		return result
	}
	if payment == nil {
		// the orchestrator must have created the row first, no implicit creation
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("no payment found for intent %s", event.IntentID)
		result.Error = errObj
		return result
	}

	if payment.Succeeded() {
		// never downgrade a success; a replayed or late event is acknowledged
		c.Log.Info("webhook-usecase", fmt.Sprintf("payment %d already succeeded, skipping", payment.ID), "applyPaymentResult", event.IntentID)
		result.Data = map[string]interface{}{"received": true}
		return result
	}

	if status == entity.PaymentStatusSucceeded && event.Amount > 0 {
		if math.Abs(float64(event.Amount)-payment.Amount*100) >= 1 {
			c.Log.Warn("webhook-usecase",
				fmt.Sprintf("amount mismatch for intent %s: event %d cents, stored %.2f", event.IntentID, event.Amount, payment.Amount),
				"applyPaymentResult", "")
		}
	}

	if err := c.Payments.UpdateStatusByIntentID(ctx, nil, event.IntentID, status); err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("webhook-usecase", err.Error(), "applyPaymentResult", event.IntentID)
		return result
	}

	if status != entity.PaymentStatusSucceeded {
		// a failed payment leaves the order where it was so the client can retry
		result.Data = map[string]interface{}{"received": true}
		return result
	}

	order, err := c.Orders.FindByID(ctx, payment.OrderID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("webhook-usecase", err.Error(), "applyPaymentResult", event.IntentID)
		return result
	}
	if order == nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("webhook-usecase",
			fmt.Sprintf("order %d referenced by payment %d not found", payment.OrderID, payment.ID),
			"applyPaymentResult", event.IntentID)
		return result
	}

	err = c.Tx.WithinTransaction(ctx, func(tx *sqlx.Tx) error {
		switch payment.PaymentType {
		case entity.PaymentTypeInitial:
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventInitialPaid, "processor"); err != nil {
				return err
			}
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventStartProgress, "processor"); err != nil {
				return err
			}
		case entity.PaymentTypeFinal:
			if _, err := c.Transitioner.Apply(ctx, tx, order, entity.EventFinalPaid, "processor"); err != nil {
				return err
			}
		}

		return c.markInstallmentPaid(ctx, tx, order, payment.PaymentType)
	})
	if err != nil {
		if invalid, ok := err.(*entity.InvalidTransitionError); ok {
			// the payment is recorded; the order was moved by another actor
			// first (typically a manual record of the same phase)
			c.Log.Warn("webhook-usecase", invalid.Error(), "applyPaymentResult", event.IntentID)
			result.Data = map[string]interface{}{"received": true}
			return result
		}
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("webhook-usecase", err.Error(), "applyPaymentResult", event.IntentID)
		return result
	}

	result.Data = map[string]interface{}{"received": true}
	return result
}

// markInstallmentPaid keeps the richer plan in sync with the legacy phase
// columns: initial marks the first installment, final marks the rest.
func (c *WebhookUseCase) markInstallmentPaid(ctx context.Context, tx *sqlx.Tx, order *entity.Order, paymentType string) error {
	plan, err := order.Plan()
	if err != nil || plan == nil {
		return nil
	}

	now := time.Now()
	for i := range plan.Installments {
		if paymentType == entity.PaymentTypeInitial && i > 0 {
			break
		}
		if paymentType == entity.PaymentTypeFinal && i == 0 {
			continue
		}
		if plan.Installments[i].Status != entity.InstallmentPaid {
			plan.Installments[i].Status = entity.InstallmentPaid
			plan.Installments[i].PaidAt = &now
		}
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return c.Orders.UpdatePlan(ctx, tx, order.ID, planJSON)
}
