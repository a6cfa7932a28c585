package messaging

import (
	"kolibra-order-service/src/internal/model"
	kafka "kolibra-order-service/src/pkg/kafka/confluent"
	"kolibra-order-service/src/pkg/log"
)

type OrderProducer struct {
	StatusProducer Producer[*model.OrderStatusChanged]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		StatusProducer: Producer[*model.OrderStatusChanged]{
			Producer: producer,
			Topic:    "order-status",
			Log:      log,
		},
	}
}

func (o *OrderProducer) SendStatusChanged(event *model.OrderStatusChanged) error {
	return o.StatusProducer.Send(event)
}
