package usecase

import (
	"context"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model/converter"
	"kolibra-order-service/src/pkg/log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Transitioner applies one order status event: it resolves the next status
// from the transition table, updates the order row, appends to the status
// event log, and publishes the change to the broker. Publish failures are
// logged but do not abort the surrounding transaction.
type Transitioner struct {
	Orders    OrderStore
	Events    StatusEventStore
	Publisher StatusPublisher
	Log       log.Log
}

func (t *Transitioner) Apply(ctx context.Context, tx *sqlx.Tx, order *entity.Order, event entity.OrderEvent, actor string) (entity.OrderStatus, error) {
	next, err := entity.NextStatus(order.Status, event)
	if err != nil {
		return "", err
	}

	if err := t.Orders.UpdateStatus(ctx, tx, order.ID, next); err != nil {
		return "", err
	}

	statusEvent := &entity.OrderStatusEvent{
		ID:         uuid.NewString(),
		OrderID:    order.ID,
		FromStatus: order.Status.Normalize(),
		ToStatus:   next,
		Actor:      actor,
		CreatedAt:  time.Now(),
	}
	if err := t.Events.Insert(ctx, tx, statusEvent); err != nil {
		return "", err
	}

	if t.Publisher != nil {
		if err := t.Publisher.SendStatusChanged(converter.StatusChangeToEvent(statusEvent)); err != nil {
			t.Log.Warn("transitioner", "failed to publish status change event", "Apply", err.Error())
		}
	}

	order.Status = next
	return next, nil
}
